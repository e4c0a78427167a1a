package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/globaltfn/remindme-server/extraction"
)

var (
	extractServerFlag string
	extractOutFlag    string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [pdf file]",
	Short: "Extracts a week schedule from a PDF timetable",
	Long: `Runs the PDF extraction pipeline over a local file and prints the
extracted schedule JSON. With --server the pipeline runs remotely through a
running api instance and this command consumes its event stream instead`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pdf, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		var terminal extraction.Event
		if extractServerFlag != "" {
			terminal, err = extractRemote(cmd.Context(), extractServerFlag, pdf)
		} else {
			terminal, err = extractLocal(cmd.Context(), pdf)
		}
		if err != nil {
			return err
		}

		if terminal.Status == extraction.StatusError {
			return errors.New(terminal.Message)
		}
		if terminal.Type == "text" {
			text, _ := terminal.Data.(string)
			return fmt.Errorf("document rejected: %s", text)
		}

		out := os.Stdout
		if extractOutFlag != "" {
			f, err := os.Create(extractOutFlag)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		_, err = out.Write(terminal.ParsedSchedule())
		return err
	},
}

func extractLocal(ctx context.Context, pdf []byte) (extraction.Event, error) {
	client := extraction.NewGeminiClient(os.Getenv("GOOGLE_API_KEY"), "")
	pipeline := extraction.NewPipeline(client)

	var terminal extraction.Event
	for event := range pipeline.Run(ctx, pdf) {
		log.WithField("progress", event.Progress).Info(event.Message)
		terminal = event
	}
	if !terminal.IsTerminal() {
		return extraction.Event{}, errors.New("extraction ended without a terminal frame")
	}
	return terminal, nil
}

func extractRemote(ctx context.Context, serverURL string, pdf []byte) (extraction.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverURL+"/api/extract-pdf", bytes.NewReader(pdf))
	if err != nil {
		return extraction.Event{}, err
	}
	req.Header.Set("Content-Type", "application/pdf")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return extraction.Event{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return extraction.Event{}, fmt.Errorf("server responded with %s", resp.Status)
	}

	var terminal extraction.Event
	decoder := extraction.NewStreamDecoder(resp.Body)
	for {
		event, err := decoder.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return extraction.Event{}, err
		}
		log.WithField("progress", event.Progress).Info(event.Message)
		terminal = event
	}
	if !terminal.IsTerminal() {
		return extraction.Event{}, errors.New("stream ended without a terminal frame")
	}
	return terminal, nil
}

func init() {
	appCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&extractServerFlag, "server", "s", "", "Base url of a running api instance to extract through")
	extractCmd.Flags().StringVarP(&extractOutFlag, "out", "o", "", "Write the extracted schedule json to this file")
}
