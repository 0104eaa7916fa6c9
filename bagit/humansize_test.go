package bagit_test

import (
	"testing"

	"github.com/APTrust/bagit-packager/bagit"
	"github.com/stretchr/testify/assert"
)

func TestHumanSize(t *testing.T) {
	var table = []struct {
		input  int64
		output string
	}{
		{0, "0 bytes"},
		{10, "10 bytes"},
		{500, "500 bytes"},
		{1023, "1023 bytes"},
		{1024, "1 KiB"},
		{2047, "1 KiB"}, // truncate
		{2048, "2 KiB"},
		{bagit.MiB - 1, "1023 KiB"},
		{5 * bagit.MiB, "5 MiB"},
		{bagit.GiB, "1 GiB"},
		{10*bagit.GiB + 512*bagit.MiB, "10 GiB"},
		{bagit.TiB, "1 TiB"},
		{2048 * bagit.TiB, "2048 TiB"},
	}

	for _, test := range table {
		assert.Equal(t, test.output, bagit.HumanSize(test.input))
	}
}
