// Package main provides the trainer for the poetry language model. It reads
// the Gutenberg poetry corpus, windows the token stream, and trains the
// transformer with AdamW under a warmup-then-cosine learning rate schedule,
// writing scalar metrics into a timestamped run directory.
package main
