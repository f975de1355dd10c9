// Package regions labels connected components of binary grids.
//
// It answers the questions a caller asks after classification: how many islands does
// the fill grid hold, how large are they, and which hole regions are enclosed lakes
// rather than open background. Labelling uses an iterative flood fill over
// 4-connected neighbours.
package regions
