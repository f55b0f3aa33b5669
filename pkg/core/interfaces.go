package core

import "go.uber.org/zap"

// Logger interface for raytracer logging. The production implementation is
// backed by zap; tests and library callers that don't want output can pass
// NewNopLogger().
type Logger interface {
	Printf(format string, args ...interface{})
}

// ZapLogger adapts a zap.SugaredLogger to the Logger interface.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger wraps an existing zap.SugaredLogger.
func NewZapLogger(sugar *zap.SugaredLogger) *ZapLogger {
	return &ZapLogger{sugar: sugar}
}

// NewProductionLogger builds a Logger backed by zap's default production
// configuration.
func NewProductionLogger() *ZapLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	return &ZapLogger{sugar: logger.Sugar()}
}

// NewNopLogger returns a Logger that discards everything, the default for
// tests and library callers that haven't opted into logging.
func NewNopLogger() *ZapLogger {
	return &ZapLogger{sugar: zap.NewNop().Sugar()}
}

func (l *ZapLogger) Printf(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// ShapeID identifies a shape within a scene's dense shape array.
type ShapeID int32

// NullShapeID is the sentinel for "no shape" (e.g. an inner BVH node).
const NullShapeID ShapeID = -1

// MaterialID identifies a material within a scene's dense material array.
type MaterialID int32

// NullMaterialID is the sentinel for "no material".
const NullMaterialID MaterialID = -1

// NodeIndex identifies a node within a BVH's node array.
type NodeIndex int32

// NullNodeIndex is the sentinel for "no node" (a leaf's absent children).
const NullNodeIndex NodeIndex = -1
