package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	testCases := []struct {
		name    string
		reply   string
		want    string
		wantErr string
	}{
		{
			name:  "bare object",
			reply: `{"a": 1}`,
			want:  `{"a": 1}`,
		},
		{
			name:  "object with surrounding prose",
			reply: "Here is the result:\n{\"a\": 1}\nLet me know if you need more.",
			want:  `{"a": 1}`,
		},
		{
			name:  "fenced json block",
			reply: "```json\n{\"a\": [1, 2]}\n```",
			want:  `{"a": [1, 2]}`,
		},
		{
			name:  "fenced block without language tag",
			reply: "```\n[{\"id\": \"DE-001\"}]\n```",
			want:  `[{"id": "DE-001"}]`,
		},
		{
			name:  "nested braces inside strings",
			reply: `{"desc": "uses {braces} and \"quotes\""}`,
			want:  `{"desc": "uses {braces} and \"quotes\""}`,
		},
		{
			name:  "array value",
			reply: "The links are: [1, 2, 3] as requested",
			want:  `[1, 2, 3]`,
		},
		{
			name:    "no json at all",
			reply:   "I could not produce any output.",
			wantErr: "no JSON value",
		},
		{
			name:    "unbalanced object",
			reply:   `{"a": {"b": 1}`,
			wantErr: "unbalanced",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractJSON(tc.reply)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeReply(t *testing.T) {
	var out struct {
		Elements []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"elements"`
	}

	reply := "Extracted elements:\n```json\n{\"elements\": [{\"id\": \"DE-001\", \"name\": \"AuthService\"}]}\n```"
	require.NoError(t, DecodeReply(reply, &out))
	require.Len(t, out.Elements, 1)
	assert.Equal(t, "AuthService", out.Elements[0].Name)

	assert.Error(t, DecodeReply("not json", &out))
	assert.Error(t, DecodeReply(`{"elements": "wrong type"}`, &out))
}
