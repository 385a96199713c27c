// Package codec turns builds into short URL-safe strings and back.
//
// Two encodings exist. The order slug keeps the spend history: each run of
// events in one tree starts with the tree's digit, followed by one letter per
// point (A for the first node of the tree). A node maxed inside a single run
// collapses to one uppercase letter. The dense encoding keeps only final
// totals, one digit per node, and is accepted for links created before order
// slugs existed.
//
// Decoders never fail; unreadable input yields the part that could be read.
package codec
