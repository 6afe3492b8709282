package main

import (
	"bytes"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/clues/pkg/client"
	"github.com/entrhq/clues/pkg/config"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options
	}{
		{
			name: "server",
			args: []string{"--server", "--port=9000", "--no-headless"},
			want: options{server: true, port: 9000, portSet: true, noHeadless: true},
		},
		{
			name: "short flags",
			args: []string{"-s", "-p", "9001"},
			want: options{server: true, port: 9001, portSet: true},
		},
		{
			name: "mark with board",
			args: []string{"innocent", "B3", "-b"},
			want: options{port: 8080, board: true, args: []string{"innocent", "b3"}},
		},
		{
			name: "mark with copy and config",
			args: []string{"Criminal", "d5", "--copy", "--config", "clues.yaml"},
			want: options{port: 8080, copy: true, configPath: "clues.yaml", args: []string{"criminal", "d5"}},
		},
		{
			name: "blank arguments are dropped",
			args: []string{"--server", "--port=8080", ""},
			want: options{server: true, port: 8080, portSet: true},
		},
		{
			name: "debug",
			args: []string{"board", "--debug"},
			want: options{port: 8080, debug: true, args: []string{"board"}},
		},
		{
			name: "help",
			args: []string{"--help"},
			want: options{port: 8080, help: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseArgs_UnknownFlag(t *testing.T) {
	_, err := parseArgs([]string{"--frobnicate"})
	assert.Error(t, err)
}

func TestRun_Usage(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(nil, &out))
	assert.Equal(t, usage, out.String())

	out.Reset()
	require.NoError(t, run([]string{"--version"}, &out))
	assert.Equal(t, "clues v"+version+"\n", out.String())
}

func TestRun_Commands(t *testing.T) {
	var requests []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		requests = append(requests, r.Method+r.URL.Path+" "+r.PostForm.Encode())
		if r.URL.Path == "/set" && r.PostForm.Get("coordinate") == "e9" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Not Found: No suspect at e9"))
			return
		}
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	port := ts.Listener.Addr().(*net.TCPAddr).Port
	portFlag := "--port=" + strconv.Itoa(port)

	var out bytes.Buffer
	require.NoError(t, run([]string{"board", portFlag}, &out))
	require.NoError(t, run([]string{"innocent", "A1", "-b", portFlag}, &out))
	require.NoError(t, run([]string{"stop", portFlag}, &out))

	err := run([]string{"criminal", "E9", portFlag}, &out)
	var statusErr *client.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)

	assert.Equal(t, []string{
		"GET/board ",
		"POST/set board=true&coordinate=a1&status=innocent",
		"POST/stop ",
		"POST/set board=false&coordinate=e9&status=criminal",
	}, requests)
	assert.Equal(t, "ok\nok\nStopping server...\nok\nNot Found: No suspect at e9\n", out.String())
}

func TestRun_MissingCoordinate(t *testing.T) {
	err := run([]string{"innocent"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "please provide a coordinate")
}

func TestRun_UnknownCommand(t *testing.T) {
	err := run([]string{"accuse", "a1"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, `unknown command "accuse"`)
}

func TestSpawnArgs(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Equal(t, []string{"--server", "--port=8080"}, spawnArgs(cfg, &options{}, 8080))

	cfg.Headless = false
	cfg.Debug = true
	got := spawnArgs(cfg, &options{configPath: "/etc/clues.yaml"}, 9000)
	assert.Equal(t, []string{"--server", "--port=9000", "--no-headless", "--debug", "--config=/etc/clues.yaml"}, got)
}

func TestPrintResponse(t *testing.T) {
	var out bytes.Buffer
	err := printResponse(&out, "Bad Request: Invalid status", &client.StatusError{Code: 400, Body: "Bad Request: Invalid status"})
	assert.Error(t, err)
	assert.Equal(t, "Bad Request: Invalid status\n", out.String())

	out.Reset()
	assert.NoError(t, printResponse(&out, "done", nil))
	assert.True(t, strings.HasPrefix(out.String(), "done"))
}

func TestListen(t *testing.T) {
	busy, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	defer busy.Close()
	port := busy.Addr().(*net.TCPAddr).Port

	var out bytes.Buffer
	_, err = listen(port, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen on localhost:"+strconv.Itoa(port))
	assert.Empty(t, out.String(), "nothing is announced when the port is taken")

	require.NoError(t, busy.Close())
	ln, err := listen(port, &out)
	require.NoError(t, err)
	defer ln.Close()
	assert.Equal(t, "Server running on http://localhost:"+strconv.Itoa(port)+"/\n", out.String())
}
