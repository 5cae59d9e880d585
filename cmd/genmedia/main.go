package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aself101/google-genai-api/internal/errclass"
	"github.com/aself101/google-genai-api/internal/gemini"
	"github.com/aself101/google-genai-api/internal/infra"
	"github.com/aself101/google-genai-api/internal/jobs"
	"github.com/aself101/google-genai-api/internal/poll"
	"github.com/aself101/google-genai-api/internal/storage"
	"github.com/aself101/google-genai-api/internal/validate"
)

var (
	verbose   bool
	outputDir string

	// video flags
	videoModel     string
	aspectRatio    string
	resolution     string
	duration       int
	negativePrompt string
	personGen      string
	imageSource    string
	lastFrame      string
	referenceImgs  []string
	extendOpName   string

	// image flags
	imageModel string
	samples    int

	// analyze flags
	analysisModel string
	clipStart     string
	clipEnd       string
	promptFile    string
)

var rootCmd = &cobra.Command{
	Use:   "genmedia",
	Short: "Generate images and videos with the Gemini API",
	Long: `genmedia submits generation jobs to the Gemini API and retrieves the
results: synchronous image generation, long-running video generation polled
to completion, and upload-and-ask video analysis.`,
	SilenceUsage: true,
}

var videoCmd = &cobra.Command{
	Use:   "video [prompt]...",
	Short: "Generate videos from prompts (long-running, polled)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		defer env.close()

		var extendSource *gemini.Video
		if extendOpName != "" {
			extendSource, err = env.runner.VideoFromOperation(cmd.Context(), extendOpName)
			if err != nil {
				return err
			}
		}

		vjobs := make([]jobs.VideoJob, 0, len(args))
		for _, prompt := range args {
			job := jobs.VideoJob{
				Video:            extendSource,
				Prompt:           prompt,
				Model:            videoModel,
				NegativePrompt:   negativePrompt,
				AspectRatio:      aspectRatio,
				Resolution:       resolution,
				DurationSeconds:  duration,
				PersonGeneration: personGen,
			}
			if imageSource != "" {
				img, err := jobs.LoadImage(cmd.Context(), env.httpClient, imageSource)
				if err != nil {
					return err
				}
				job.Image = img
			}
			if lastFrame != "" {
				img, err := jobs.LoadImage(cmd.Context(), env.httpClient, lastFrame)
				if err != nil {
					return err
				}
				job.LastFrame = img
			}
			for _, ref := range referenceImgs {
				img, err := jobs.LoadImage(cmd.Context(), env.httpClient, ref)
				if err != nil {
					return err
				}
				job.ReferenceImages = append(job.ReferenceImages, &gemini.ReferenceImage{
					Image:         img,
					ReferenceType: "asset",
				})
			}
			vjobs = append(vjobs, job)
		}

		results, err := env.runner.RunVideos(cmd.Context(), vjobs, env.progress)
		for _, result := range results {
			fmt.Fprintln(cmd.OutOrStdout(), result.Path)
		}
		return err
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume <operation-name>",
	Short: "Resume polling a previously submitted video operation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		defer env.close()

		result, err := env.runner.ResumeVideo(cmd.Context(), args[0], env.progress)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Path)
		return nil
	},
}

var imageCmd = &cobra.Command{
	Use:   "image <prompt>",
	Short: "Generate images from a prompt (synchronous)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		defer env.close()

		paths, err := env.runner.RunImages(cmd.Context(), jobs.ImageJob{
			Prompt:           args[0],
			Model:            imageModel,
			AspectRatio:      aspectRatio,
			Samples:          samples,
			PersonGeneration: personGen,
		})
		for _, path := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		return err
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <video-path> [prompt]...",
	Short: "Upload a video once and run one or more analysis prompts against it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		defer env.close()

		prompts, err := collectAnalysisPrompts(args[1:])
		if err != nil {
			return err
		}

		paths, err := env.runner.AnalyzeVideo(cmd.Context(), args[0], analysisModel, prompts)
		for _, path := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		return err
	},
}

func collectAnalysisPrompts(args []string) ([]jobs.AnalysisPrompt, error) {
	texts := args
	if promptFile != "" {
		loaded, err := readPromptFile(promptFile)
		if err != nil {
			return nil, err
		}
		texts = append(texts, loaded...)
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("at least one prompt is required")
	}

	var start, end int
	if clipStart != "" || clipEnd != "" {
		if clipStart == "" || clipEnd == "" {
			return nil, fmt.Errorf("--clip-start and --clip-end must be used together")
		}
		var err error
		start, end, err = validate.ParseClip(clipStart, clipEnd)
		if err != nil {
			return nil, err
		}
	}

	prompts := make([]jobs.AnalysisPrompt, len(texts))
	for i, text := range texts {
		prompts[i] = jobs.AnalysisPrompt{Text: text, StartSeconds: start, EndSeconds: end}
	}
	return prompts, nil
}

// env holds the wired collaborators for one command invocation.
type env struct {
	runner     *jobs.Runner
	httpClient *http.Client
	progress   chan jobs.Update
	done       chan struct{}
}

func newEnv() (*env, error) {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := infra.NewLogger(cfg.AppEnv, verbose)

	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	store, err := storage.NewStore(outputDir)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	client, err := gemini.NewClient(gemini.Options{
		APIKey:            cfg.GeminiAPIKey,
		BaseURL:           cfg.GeminiBaseURL,
		HTTPClient:        httpClient,
		Logger:            &logger,
		RequestsPerMinute: cfg.RequestsPerMinute,
	})
	if err != nil {
		return nil, err
	}

	applyModelDefaults(cfg)

	uploader := jobs.NewUploader(client, logger, poll.Policy{
		Initial:     cfg.FilePollInitial,
		Multiplier:  cfg.FilePollMultiplier,
		Cap:         cfg.FilePollMax,
		MaxAttempts: cfg.FilePollAttempts,
	}, cfg.FileRateCooldown)
	submitter := jobs.NewSubmitter(client, logger)
	poller := jobs.NewPoller(client, logger, poll.Policy{
		Fixed:       cfg.OpPollInterval,
		MaxAttempts: cfg.OpPollAttempts,
	})
	downloader := jobs.NewDownloader(client, store, logger)
	sanitizer := errclass.NewSanitizer(cfg.HardenedErrors)
	runner := jobs.NewRunner(client, uploader, submitter, poller, downloader, store, sanitizer, logger)

	e := &env{
		runner:     runner,
		httpClient: httpClient,
		progress:   make(chan jobs.Update, 256),
		done:       make(chan struct{}),
	}
	go func() {
		defer close(e.done)
		for update := range e.progress {
			logger.Info().
				Str("operation", update.Operation.Name).
				Dur("elapsed", update.Elapsed.Round(time.Second)).
				Msg("still waiting on operation")
		}
	}()
	return e, nil
}

func (e *env) close() {
	close(e.progress)
	<-e.done
}

// applyModelDefaults fills unset model flags from configuration.
func applyModelDefaults(cfg *infra.Config) {
	if videoModel == "" {
		videoModel = cfg.VideoModel
	}
	if imageModel == "" {
		imageModel = cfg.ImageModel
	}
	if analysisModel == "" {
		analysisModel = cfg.AnalysisModel
	}
}

func readPromptFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt file: %w", err)
	}
	var prompts []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			prompts = append(prompts, line)
		}
	}
	return prompts, nil
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "output directory (default from OUTPUT_DIR)")
	rootCmd.PersistentFlags().StringVar(&aspectRatio, "aspect-ratio", "", "aspect ratio, e.g. 16:9")
	rootCmd.PersistentFlags().StringVar(&personGen, "person-generation", "", "person generation policy, e.g. allow_adult")

	videoCmd.Flags().StringVar(&videoModel, "model", "", "video model (default from GEMINI_VIDEO_MODEL)")
	videoCmd.Flags().StringVar(&resolution, "resolution", "", "output resolution, e.g. 720p")
	videoCmd.Flags().IntVar(&duration, "duration", 0, "duration in seconds")
	videoCmd.Flags().StringVar(&negativePrompt, "negative-prompt", "", "what the video should avoid")
	videoCmd.Flags().StringVar(&imageSource, "image", "", "first-frame reference image (path or https URL)")
	videoCmd.Flags().StringVar(&lastFrame, "last-frame", "", "last-frame image for interpolation")
	videoCmd.Flags().StringArrayVar(&referenceImgs, "reference-image", nil, "reference/guide image (repeatable)")
	videoCmd.Flags().StringVar(&extendOpName, "extend", "", "extend the video produced by this operation")

	imageCmd.Flags().StringVar(&imageModel, "model", "", "image model (default from GEMINI_IMAGE_MODEL)")
	imageCmd.Flags().IntVar(&samples, "samples", 1, "number of image candidates (1-4)")

	analyzeCmd.Flags().StringVar(&analysisModel, "model", "", "analysis model (default from GEMINI_ANALYSIS_MODEL)")
	analyzeCmd.Flags().StringVar(&clipStart, "clip-start", "", `clip start, e.g. "90s" or "1:30"`)
	analyzeCmd.Flags().StringVar(&clipEnd, "clip-end", "", `clip end, e.g. "2:15"`)
	analyzeCmd.Flags().StringVar(&promptFile, "prompt-file", "", "file with one prompt per line")

	rootCmd.AddCommand(videoCmd, resumeCmd, imageCmd, analyzeCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
