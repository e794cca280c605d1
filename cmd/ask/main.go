// Command ask is a terminal client for the daedap server. It sends a
// single question and prints the streamed conversation as it unfolds:
// tokens as they arrive, tool calls and their results in between.
//
//	ask -server http://localhost:8080 "what time is it in seoul?"
//	ask -no-stream "AAPL quote"
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/jmkoo/daedap/pkg/api"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "server base URL")
	system := flag.String("system", "", "system instruction override")
	token := flag.String("token", "", "bearer token for authenticated servers")
	noStream := flag.Bool("no-stream", false, "request a single JSON answer instead of SSE")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: ask [flags] <message>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	message := strings.Join(flag.Args(), " ")

	if err := run(*server, *token, message, *system, !*noStream); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(server, token, message, system string, stream bool) error {
	body, err := json.Marshal(api.AskRequest{
		Message: message,
		System:  system,
		Stream:  stream,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, server+"/v1/ask", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !stream {
		return printAnswer(resp)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream") {
		// The server refused before streaming started.
		return printAnswer(resp)
	}
	return printStream(resp.Body)
}

func printAnswer(resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		var eb api.ErrorBody
		if json.Unmarshal(data, &eb) == nil && eb.Error {
			return fmt.Errorf("%s: %s", eb.Name, eb.Message)
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var answer api.Answer
	if err := json.Unmarshal(data, &answer); err != nil {
		return fmt.Errorf("decoding answer: %w", err)
	}
	fmt.Println(answer.Answer)
	return nil
}

// printStream consumes the SSE stream, rendering token text inline and
// tool activity on separate lines.
func printStream(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var eventType string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			eventType = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			if err := render(eventType, []byte(strings.TrimPrefix(line, "data: "))); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}

func render(eventType string, data []byte) error {
	switch api.EventType(eventType) {
	case api.EventToken:
		var tok api.TokenData
		if err := json.Unmarshal(data, &tok); err != nil {
			return err
		}
		fmt.Print(tok.Text)
	case api.EventToolCall:
		var tc api.ToolCallData
		if err := json.Unmarshal(data, &tc); err != nil {
			return err
		}
		for _, call := range tc.Calls {
			args, _ := json.Marshal(call.Args)
			fmt.Printf("\n[tool] %s(%s)\n", call.Name, args)
		}
	case api.EventToolResult:
		var tr api.ToolResultData
		if err := json.Unmarshal(data, &tr); err != nil {
			return err
		}
		out, _ := json.Marshal(tr.Response)
		fmt.Printf("[tool] %s -> %s\n", tr.Name, out)
	case api.EventDone:
		fmt.Println()
	case api.EventError:
		var apiErr api.Error
		if err := json.Unmarshal(data, &apiErr); err != nil {
			return err
		}
		fmt.Println()
		return fmt.Errorf("%s: %s", apiErr.Name, apiErr.Message)
	}
	return nil
}
