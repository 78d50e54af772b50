// Copyright 2025 The ROAMS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// stats holds the scalar statistical routines of the ROAMS model:
// empirical quantiles, cumulative-above-threshold emissions curves, and
// the scaled confidence-interval reduction applied to Monte Carlo
// ensembles at reporting time.
package stats // import "github.com/roams-model/roams/stats"

import "math"

var inf = math.Inf(1)
var nan = math.NaN()
