package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalVector(t *testing.T) {
	tests := []struct {
		name   string
		vector []float32
	}{
		{"empty vector", []float32{}},
		{"single value", []float32{0.5}},
		{"typical embedding", []float32{0.1, -0.2, 0.3, 0.0, 1.0, -1.0}},
		{"extremes", []float32{3.4e38, -3.4e38, 1.4e-45}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalVector(tt.vector)
			require.NotNil(t, data)

			decoded, err := UnmarshalVector(data)
			require.NoError(t, err)
			if len(tt.vector) == 0 {
				assert.Empty(t, decoded)
			} else {
				assert.Equal(t, tt.vector, decoded)
			}
		})
	}
}

func TestUnmarshalVector_Invalid(t *testing.T) {
	_, err := UnmarshalVector([]byte{})
	assert.Error(t, err)
}
