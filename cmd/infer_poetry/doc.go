// Package main provides the sampler for the poetry language model. It loads
// trained weights and generates text from a prompt.
package main
