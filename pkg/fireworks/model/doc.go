// Package model provides the data structures shared between the launcher
// and its options. It defines the firework summary handed to observers and
// the contract launch options implement.
package model
