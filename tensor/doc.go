// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides matrix helpers shared by the training engine.
//
// # Overview
//
// Every value the engine touches is a two-dimensional *mat.Dense from gonum.
// Rows are samples in a batch; columns are features, neurons or classes.
// This package adds:
//   - Shape: a comparable [rows x cols] descriptor
//   - Construction from and conversion to [][]float64
//   - Row selection and slicing that copy
//   - Shape validation returning *ShapeError
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/mlp/tensor"
//	)
//
//	func main() {
//	    x, err := tensor.FromRows([][]float64{{0, 0}, {0, 1}})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(tensor.ShapeOf(x)) // [2 x 2]
//	}
//
// # Empty Matrices
//
// gonum cannot represent a matrix with zero rows, so a nil *mat.Dense and the
// zero value mat.Dense{} both count as empty. Operations that need data
// reject empty matrices with ErrInvalidArgument.
package tensor
