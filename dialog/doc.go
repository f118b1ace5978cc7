// Package dialog routes dialogue turns between a general conversational
// path and a retrieval-grounded financial path.
//
// A turn makes at most two model calls: one to classify the question and
// one to answer it. The classifier is held to a one-word contract
// (FINANCIAL or GENERAL) and fails open: any error or off-contract output
// routes to the financial branch, where retrieval supplies grounding
// context or the no-records placeholder.
//
// Answer generation is the only stage that can fail a turn. Its cause is
// logged and the caller receives ErrTurnFailed.
package dialog
