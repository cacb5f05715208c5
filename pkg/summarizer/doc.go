/*
Package summarizer is the built-in reference backend used when a stage has no external
framework command configured.

It provides a word-level Tokenizer with a deterministic vocabulary and an extractive Model that
learns per-token salience from dialogue/summary pairs. Both are deliberately small: they exist so
the pipeline can run end to end on a fixture dataset, not to compete with a neural summarizer.
*/
package summarizer
