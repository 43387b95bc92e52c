// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package train

import (
	"log/slog"

	"github.com/born-ml/mlp/internal/train"
	"github.com/born-ml/mlp/nn"
)

// Config holds the training hyperparameters.
type Config = train.Config

// DefaultConfig returns learning rate 0.01, 100 epochs, batch size 32 and a
// progress line every 10 epochs.
func DefaultConfig() Config {
	return train.DefaultConfig()
}

// Trainer runs epochs of shuffled mini-batch training over a Network.
type Trainer = train.Trainer

// Option configures a Trainer.
type Option = train.Option

// NewTrainer creates a trainer for network.
func NewTrainer(network *nn.Network, config Config, opts ...Option) (*Trainer, error) {
	return train.NewTrainer(network, config, opts...)
}

// WithLogger sets the progress logger.
func WithLogger(logger *slog.Logger) Option {
	return train.WithLogger(logger)
}

// WithLoss sets the loss function.
func WithLoss(loss nn.Loss) Option {
	return train.WithLoss(loss)
}

// WithSeed makes the shuffle order reproducible.
func WithSeed(seed uint64) Option {
	return train.WithSeed(seed)
}
