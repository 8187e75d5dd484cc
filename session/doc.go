// Package session contains concrete ConversationStore implementations. The
// interface resides in the core package so consumers can swap durable
// backends at wiring time.
package session
