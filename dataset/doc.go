// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset loads delimited text files into matrices for training.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/mlp/dataset"
//	)
//
//	func main() {
//	    reader, err := dataset.NewReader("iris.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    table, err := reader.Load()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    x, y, err := table.SplitTarget(table.ColumnIndex("label"))
//	    split, err := dataset.NewSplitter(dataset.WithSeed(1)).TrainTestSplit(x, y, 0.2)
//	}
//
// The first record is a header unless WithHeader(false) is given. Blank
// lines are skipped and cells are trimmed of surrounding whitespace.
package dataset
