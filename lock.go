// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// spinLock is a test-and-set lock for the pipe's shared state (buffer,
// size, wait registries). Critical sections under it are O(1): a ring
// slot move, a registry link or unlink, a completion hand-off.
// Contended acquire backs off with CPU pause instructions.
type spinLock struct {
	state atomix.Uint64
}

func (l *spinLock) Lock() {
	sw := spin.Wait{}
	for !l.state.CompareAndSwapAcqRel(0, 1) {
		sw.Once()
	}
}

func (l *spinLock) Unlock() {
	l.state.StoreRelease(0)
}
