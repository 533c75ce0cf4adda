// Package services implements the driving port interfaces.
// Services hold the retrieval and generation logic and orchestrate
// calls to driven ports (stores, embedders, LLMs).
//
// Nothing here talks to the network or disk directly.
package services
