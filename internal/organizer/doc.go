// Package organizer moves finished audio into the output directory.
//
// The rename is the last step of a conversion: once the file exists under
// its final name the job is complete and later runs will skip the source
// video. Collisions with existing output files resolve deterministically by
// appending _2, _3, and so on to the stem.
package organizer
