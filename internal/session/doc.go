// Package session runs the coaching tick loop.
//
// A Runner initializes the pose adapter, then on every animation frame pulls
// one prediction list and hands it to the coach.Machine. Ticks are strictly
// sequential: the next frame is not requested until the previous update has
// been applied. Start requests arrive on a channel and are applied between
// ticks. When Run returns, the pending stretch advance is cancelled and the
// adapter is torn down exactly once.
package session
