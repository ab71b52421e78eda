// Package ml implements the fitted transforms and the classifier behind flood
// risk prediction: a closed-vocabulary label encoder, a per-column standard
// scaler, a seeded train/test split, and a random forest of CART trees.
//
// Every fitted type is a plain value with exported fields so it can be
// persisted as a JSON artifact and loaded back unchanged. Fitted values are
// never mutated after construction, so they are safe for concurrent readers.
package ml
