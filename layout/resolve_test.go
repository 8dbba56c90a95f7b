package layout_test

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"splitflap/common"
	"splitflap/layout"
)

func TestResolve_Policies(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		n        int
		policy   common.Policy
		previous string
		want     string
	}{
		{"extend", "AB", 5, common.PolicyExtend, "", "AB   "},
		{"center even", "AB", 6, common.PolicyCenter, "", "  AB  "},
		{"center odd", "AB", 5, common.PolicyCenter, "", " AB  "},
		{"carry", "AB", 5, common.PolicyCarry, "XYZUV", "ABZUV"},
		{"carry short previous", "AB", 5, common.PolicyCarry, "XYZ", "ABZ  "},
		{"truncate extend", "ABCDEF", 4, common.PolicyExtend, "", "ABCD"},
		{"truncate center", "ABCDEF", 4, common.PolicyCenter, "", "ABCD"},
		{"truncate carry", "ABCDEF", 4, common.PolicyCarry, "WXYZ", "ABCD"},
		{"exact", "ABCD", 4, common.PolicyCenter, "", "ABCD"},
		{"multibyte", "ÄÖ", 4, common.PolicyExtend, "", "ÄÖ  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, layout.Resolve(tt.text, tt.n, tt.policy, tt.previous))
		})
	}
}

func TestResolve_LengthAlwaysFlapCount(t *testing.T) {
	texts := []string{"", "A", "AB CD", "ABCDEFGHIJKLMNOP", "ÜBER"}
	for _, policy := range common.PolicyValues() {
		for n := 1; n <= 12; n++ {
			for _, text := range texts {
				got := layout.Resolve(text, n, policy, "PREVIOUS")
				assert.Equal(t, n, utf8.RuneCountInString(got), "policy %s n %d text %q", policy, n, text)
			}
		}
	}
}

func TestCenterSplit(t *testing.T) {
	for n := 0; n <= 10; n++ {
		for length := 0; length <= n; length++ {
			indent, remainder := layout.CenterSplit(length, n)
			assert.Equal(t, n, indent+length+remainder)
			assert.LessOrEqual(t, indent, remainder)
			assert.LessOrEqual(t, remainder-indent, 1)
		}
	}
}
