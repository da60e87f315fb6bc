package wm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandArgv(t *testing.T) {
	t.Setenv("KARMEN_TEST_TERM", "st")
	tests := []struct {
		run     string
		want    []string
		wantErr bool
	}{
		{run: "xterm", want: []string{"xterm"}},
		{run: `xterm -title "hello world"`, want: []string{"xterm", "-title", "hello world"}},
		{run: "$KARMEN_TEST_TERM -e top", want: []string{"st", "-e", "top"}},
		{run: "", wantErr: true},
		{run: `xterm "unterminated`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.run, func(t *testing.T) {
			got, err := Command{Run: tt.run}.Argv()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCommandStartFailsForMissingProgram(t *testing.T) {
	_, err := Command{Run: "karmen-no-such-program-here"}.Start()
	require.Error(t, err)
}
