// Package store defines the persistence interfaces of the transcription
// service and the transaction helper shared by every implementation.
//
// Each store works against a DBTX so the same code runs on a pooled
// connection or inside a transaction obtained through WithTx.
package store
