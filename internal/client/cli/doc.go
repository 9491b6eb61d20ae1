// Package cli provides the interactive vault command-line client.
//
// App wires the session and vault stores to a small REPL. While anonymous
// only help, login, signup and exit are accepted; once signed in the user
// navigates home -> category -> folder and manages notes, passwords and
// documents there. Command errors are printed and the loop goes on.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or input ends. See runREPL for the command list.
package cli
