// Package liveness runs backward live-variable analysis over simplified CFGs.
package liveness
