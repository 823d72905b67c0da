// Package remote streams lowering to an external inference engine over
// socket.io. Each create and connect step becomes one event; the engine
// builds its native objects from them.
package remote
