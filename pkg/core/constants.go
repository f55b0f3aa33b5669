package core

// Epsilon is the general-purpose numerical tolerance used throughout the
// core for grazing-angle rejection, barycentric edge inclusion and PDF
// floor checks.
const Epsilon = 1e-6

// ZeroSafe is the minimum vector length considered safe to normalize.
const ZeroSafe = 1e-12
