// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training neural networks.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/mlp/optim"
//	    "github.com/born-ml/mlp/train"
//	)
//
//	func main() {
//	    optimizer, err := optim.NewAdam(optim.AdamConfig{LR: 0.001})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    cfg := train.DefaultConfig()
//	    cfg.Optimizer = optimizer
//	    trainer, err := train.NewTrainer(net, cfg, train.WithLoss(nn.NewMeanSquaredError()))
//	}
//
// Optimizers hold per-parameter state (velocity, moments) keyed by the
// parameter, so one optimizer instance belongs to one network.
//
// # SGD
//
// Without momentum SGD performs exactly the update Dense.UpdateParameters
// performs: value -= lr * grad.
//
// # Adam
//
// Adam keeps first and second moment estimates and corrects their bias with
// the step count, so the first steps have a magnitude close to lr.
package optim
