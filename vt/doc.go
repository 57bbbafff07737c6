// Package vt implements the VT/xterm state machine and the screen,
// buffer, and region-catalog model that sit behind one multiplexed
// terminal.
//
// It mirrors three tightly coupled pieces: the byte-oriented parser
// (XTermStateMachine), the authoritative screen/buffer model
// (TermScreen, TermBuffer, CellRow, Region), and the emulator that
// binds parsed commands to mutations on that model and records an
// event-state for the emission layer in package server.
//
// Nothing here talks to a socket or a pty; those are external
// collaborators (see package wire and package server).
package vt
