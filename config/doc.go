// Package config resolves the server's fixed startup parameters.
//
// Sources, in increasing precedence: built-in defaults, an optional
// chessrelay.yaml in the configured directory, and CHESSRELAY_* environment
// variables. Flags parsed in main override all of them. Pool size and port
// are fixed for the life of the process.
package config
