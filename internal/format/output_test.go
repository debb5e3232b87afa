package format

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteJSON_CompactAndPretty(t *testing.T) {
	v := map[string]any{"data": []string{"a", "b"}}

	var compact bytes.Buffer
	if err := WriteJSON(&compact, v, false); err != nil {
		t.Fatal(err)
	}
	if got := compact.String(); got != `{"data":["a","b"]}`+"\n" {
		t.Fatalf("compact: %q", got)
	}

	var pretty bytes.Buffer
	if err := WriteJSON(&pretty, v, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(pretty.String(), "\n  \"data\"") {
		t.Fatalf("pretty: %q", pretty.String())
	}
}
