package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/promptkit/promptkit"
	"github.com/promptkit/promptkit/chatTemplates"
	"github.com/promptkit/promptkit/input"
	"github.com/promptkit/promptkit/media"
	"github.com/promptkit/promptkit/options"
	"github.com/promptkit/promptkit/util/checks"
	"github.com/promptkit/promptkit/util/fileutil"
)

var inputPath string
var outputPath string
var templateName string
var tokenizerPath string
var resizeWidth int
var resizeHeight int
var batchSize int

type request struct {
	Text     string           `json:"text,omitempty"`
	Messages []map[string]any `json:"messages,omitempty"`
	Chat     []chatLine       `json:"chat,omitempty"`
	Images   []string         `json:"images,omitempty"`
}

type chatLine struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type response struct {
	Prompt   string           `json:"prompt"`
	Messages []map[string]any `json:"messages"`
	Images   int              `json:"images"`
	Tokens   int              `json:"tokens,omitempty"`
}

var runCommand = &cli.Command{
	Name:  "run",
	Usage: "Normalize prompt requests into model-ready form",
	Description: `Run expects input in .jsonl format. Each json line must carry one of:
				{"text": "..."} - a free-form instruction,
				{"messages": [{"role": ..., "content": ...}]} - raw model-specific records,
				{"chat": [{"role": ..., "content": ..., "images": [...]}]} - a structured transcript.
				A top-level "images" list attaches images by location to text and raw requests.
				`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Usage:       "Path to the input data. If omitted, the input will be read from stdin.",
			Aliases:     []string{"i"},
			Destination: &inputPath,
		},
		&cli.StringFlag{
			Name:        "output",
			Usage:       "Path to output. If omitted, the output will be sent to stdout.",
			Aliases:     []string{"o"},
			Destination: &outputPath,
		},
		&cli.StringFlag{
			Name:        "template",
			Usage:       "Chat template to render, one of: " + strings.Join(chatTemplates.Names(), ", "),
			Aliases:     []string{"t"},
			Destination: &templateName,
			Value:       "chatml",
		},
		&cli.StringFlag{
			Name:        "tokenizer",
			Usage:       "Path to a tokenizer.json; when set, token counts are emitted",
			Destination: &tokenizerPath,
		},
		&cli.IntFlag{
			Name:        "resizeWidth",
			Usage:       "Resize all images to this width before tokenization",
			Destination: &resizeWidth,
		},
		&cli.IntFlag{
			Name:        "resizeHeight",
			Usage:       "Resize all images to this height before tokenization",
			Destination: &resizeHeight,
		},
		&cli.IntFlag{
			Name:        "batchSize",
			Usage:       "Number of requests to process in a batch",
			Aliases:     []string{"b"},
			Destination: &batchSize,
			Value:       20,
		},
	},
	Action: func(ctx *cli.Context) error {
		sessionOptions := []options.WithOption{options.WithTemplate(templateName)}
		if tokenizerPath != "" {
			sessionOptions = append(sessionOptions, options.WithTokenizer(tokenizerPath))
		}
		if resizeWidth > 0 && resizeHeight > 0 {
			sessionOptions = append(sessionOptions, options.WithDefaultResize(resizeWidth, resizeHeight))
		}
		session, err := promptkit.NewSession(sessionOptions...)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, session.Destroy())
		}()

		requestChannel := make(chan []request, 1000)
		processedChannel := make(chan []byte, 1000)
		errorsChannel := make(chan error, 1000)
		var processedWg, writeWg sync.WaitGroup

		processedWg.Add(1)
		go processRequests(ctx.Context, &processedWg, session, requestChannel, processedChannel, errorsChannel)

		var writer io.WriteCloser
		if outputPath != "" {
			writer, err = fileutil.NewWriter(ctx.Context, outputPath)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, writer.Close())
			}()
		} else {
			writer = os.Stdout
		}
		writeWg.Add(1)
		go writeOutputs(&writeWg, processedChannel, errorsChannel, writer)

		if inputPath != "" {
			exists, existsErr := fileutil.Exists(ctx.Context, inputPath)
			if existsErr != nil {
				return existsErr
			}
			if !exists {
				return fmt.Errorf("file %s does not exist", inputPath)
			}
			data, readErr := fileutil.ReadBytes(ctx.Context, inputPath)
			if readErr != nil {
				return readErr
			}
			if err := readRequests(bufferedReader(data), requestChannel); err != nil {
				return err
			}
		} else if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			// there is something to process on stdin
			if err := readRequests(os.Stdin, requestChannel); err != nil {
				return err
			}
		}

		close(requestChannel)
		processedWg.Wait()
		close(processedChannel)
		close(errorsChannel)
		writeWg.Wait()
		return err
	},
}

func main() {
	app := &cli.App{
		Name:     "promptkit",
		Usage:    "Normalize multimodal prompt requests from the command line",
		Commands: []*cli.Command{runCommand},
	}
	if err := app.Run(os.Args); err != nil {
		checks.CheckWithMessage(err, "promptkit failed")
	}
}

func bufferedReader(data []byte) io.Reader {
	reader, writer := io.Pipe()
	go func() {
		_, writeErr := writer.Write(data)
		checks.Check(writer.CloseWithError(writeErr))
	}()
	return reader
}

func readRequests(source io.Reader, requestChannel chan []request) error {
	batch := make([]request, 0, batchSize)
	scanner := bufio.NewScanner(source)
	for scanner.Scan() {
		var line request
		if err := jsoniter.Unmarshal(scanner.Bytes(), &line); err != nil {
			return err
		}
		batch = append(batch, line)
		if len(batch) == batchSize {
			requestChannel <- batch
			batch = make([]request, 0, batchSize)
		}
	}
	// flush
	if len(batch) > 0 {
		requestChannel <- batch
	}
	return scanner.Err()
}

func processRequests(ctx context.Context, wg *sync.WaitGroup, session *promptkit.Session, requestChannel chan []request, processedChannel chan []byte, errorsChannel chan error) {
	defer wg.Done()
	for batch := range requestChannel {
		for _, req := range batch {
			userInput, err := buildUserInput(req)
			if err != nil {
				errorsChannel <- err
				continue
			}
			records, err := userInput.AsMessages()
			if err != nil {
				errorsChannel <- err
				continue
			}
			prepared, err := session.Prepare(ctx, userInput)
			if err != nil {
				errorsChannel <- err
				continue
			}
			out := response{
				Prompt:   prepared.Prompt,
				Messages: records,
				Images:   len(prepared.Images),
				Tokens:   len(prepared.TokenIDs),
			}
			outputBytes, marshalErr := jsoniter.Marshal(out)
			if marshalErr != nil {
				errorsChannel <- marshalErr
				continue
			}
			processedChannel <- outputBytes
		}
	}
}

func buildUserInput(req request) (*input.UserInput, error) {
	var opts []input.Option
	for _, location := range req.Images {
		opts = append(opts, input.WithImages(media.FromURL(location)))
	}
	switch {
	case len(req.Chat) > 0:
		messages := make([]input.ChatMessage, len(req.Chat))
		for i, line := range req.Chat {
			m := input.ChatMessage{Role: input.Role(line.Role), Content: line.Content}
			for _, location := range line.Images {
				m.Images = append(m.Images, media.FromURL(location))
			}
			messages[i] = m
		}
		return input.FromChat(messages, opts...)
	case len(req.Messages) > 0:
		return input.FromMessages(req.Messages, opts...)
	default:
		return input.FromText(req.Text, opts...)
	}
}

func writeOutputs(wg *sync.WaitGroup, processedChannel chan []byte, errorChannel chan error, writeTarget io.Writer) {
	defer wg.Done()
	for processedChannel != nil || errorChannel != nil {
		select {
		case output, ok := <-processedChannel:
			if !ok {
				processedChannel = nil
				continue
			}
			_, err := writeTarget.Write(output)
			checks.Check(err)
			_, err = writeTarget.Write([]byte("\n"))
			checks.Check(err)
		case streamErr, ok := <-errorChannel:
			if !ok {
				errorChannel = nil
				continue
			}
			if streamErr != nil {
				_, err := fmt.Fprintln(os.Stderr, streamErr.Error())
				checks.Check(err)
			}
		}
	}
}
