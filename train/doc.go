// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train runs mini-batch gradient-descent training over an nn.Network.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/mlp/nn"
//	    "github.com/born-ml/mlp/train"
//	)
//
//	func main() {
//	    trainer, err := train.NewTrainer(net, train.Config{
//	        LearningRate: 0.5,
//	        Epochs:       3000,
//	        BatchSize:    4,
//	    }, train.WithLoss(nn.NewCrossEntropy()), train.WithSeed(1))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    if err := trainer.Train(inputs, targets); err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(trainer.TrainingLossHistory())
//	}
//
// # Losses and Output Layers
//
// CrossEntropy requires the network to end in a Sigmoid layer; the trainer
// checks this before the first epoch and backpropagates the fused
// (prediction - target) gradient through the pre-activation.
//
// # Logging
//
// Progress goes to a *slog.Logger passed with WithLogger. Each run is tagged
// with a run_id attribute.
package train
