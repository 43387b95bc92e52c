package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/born-ml/mlp/nn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunVersion(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"version"}, &out, &out))
	assert.Equal(t, "mlp "+version+"\n", out.String())
}

func TestRunUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run([]string{"serve"}, &out, &out))
	assert.Contains(t, out.String(), "Commands:")
}

func TestParseSizes(t *testing.T) {
	sizes, err := parseSizes("64, 32")
	require.NoError(t, err)
	assert.Equal(t, []int{64, 32}, sizes)

	sizes, err = parseSizes("")
	require.NoError(t, err)
	assert.Empty(t, sizes)

	_, err = parseSizes("8,0")
	assert.Error(t, err)
}

func TestBuildNetwork(t *testing.T) {
	net, err := buildNetwork(3, 1, []int{4, 2}, "relu", nn.NewCrossEntropy(), 1)
	require.NoError(t, err)
	require.Equal(t, 3, net.Len())
	assert.Equal(t, nn.KindSigmoid, net.OutputLayer().(*nn.Dense).Activation().Kind())

	net, err = buildNetwork(3, 1, nil, "relu", nn.NewMeanSquaredError(), 1)
	require.NoError(t, err)
	assert.Equal(t, nn.KindLinear, net.OutputLayer().(*nn.Dense).Activation().Kind())

	_, err = buildNetwork(3, 1, []int{4}, "softmax", nn.NewMeanSquaredError(), 1)
	assert.ErrorIs(t, err, nn.ErrInvalidArgument)
}

func TestTrainCommand(t *testing.T) {
	var csv strings.Builder
	csv.WriteString("x1,x2,label\n")
	for i := 0; i < 10; i++ {
		csv.WriteString("0,0,0\n0,1,1\n1,0,1\n1,1,1\n")
	}
	path := filepath.Join(t.TempDir(), "or.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv.String()), 0o600))

	var stdout, stderr bytes.Buffer
	err := run([]string{"train", "-data", path, "-target", "label", "-hidden", "4",
		"-epochs", "5", "-batch", "8", "-lr", "0.5", "-log-every", "0"}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Rows: 40")
	assert.Contains(t, stdout.String(), "Test loss:")
	assert.Contains(t, stdout.String(), "Test accuracy:")
	assert.Contains(t, stderr.String(), "training finished")
}

func TestTrainCommandRequiresData(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run([]string{"train"}, &out, &out))
}
