// Package identification detects speaker self-introductions in transcript
// text and turns them into output file stems.
//
// Detection runs a fixed, ordered list of introduction patterns ("I am X",
// "I'm X", "My name is X", "X here", "X speaking", "This is X") over a
// bounded window at the start of the transcript. The first pattern whose
// captured name survives validation wins; candidates whose first token is a
// stopword or carries no letters fall through to later patterns. Most
// transcripts contain no introduction at all, which is a normal outcome
// rather than an error.
package identification
