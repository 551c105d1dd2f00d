// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package selq

// RaceEnabled is true when the race detector is active.
// Stress tests use it to scale down their workloads, since the detector
// slows lock-heavy code by an order of magnitude.
const RaceEnabled = true
