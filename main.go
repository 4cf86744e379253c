package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ZacxDev/images-to-video/internal/config"
	"github.com/ZacxDev/images-to-video/pkg/videoprocessor"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "images-to-video <input_path> [output_file] [filter_regex]",
	Short: "Convert a directory of images into a video with EXIF subtitle tracks",
	Long: fmt.Sprintf(`images-to-video encodes every image of a directory as one frame of a
one-frame-per-second video. Each frame carries three subtitle tracks with the
image's metadata: the capture time (DateTime), every EXIF tag (EXIF) and the
tags as JSON (JSON).

Images are taken in file name order. The first image sets the video size;
rotated images are transposed, others are resized and letterboxed.

Params:
  input_path    Input directory, default: %s
  output_file   Output file, default: %s/%s.%s
                Supported formats: %s
  filter_regex  Input file name filter, matched from the start of the name,
                default: %s

Example:
  images-to-video ./DCIM ./out/trip.mp4 'IMG_\d+_.+\.jpg'`,
		config.DefaultInputPath,
		config.DefaultOutputDir, config.DefaultOutputName, config.DefaultOutputFormat,
		strings.Join(videoprocessor.GetSupportedFormats(), ", "),
		config.DefaultFilterPattern),
	Args:          cobra.MaximumNArgs(3),
	SilenceUsage:  true,
	SilenceErrors: true,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfiguration(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		opts := config.Load(viper.GetViper(), args)

		fmt.Printf(`
Input params:
-------
input  = %s/%s
output = %s
`, opts.InputPath, opts.FilterPattern, opts.Output.Path())

		err := videoprocessor.ConvertImages(context.Background(), opts, confirmOverwrite)
		if videoprocessor.IsCancelled(err) {
			fmt.Println("Cancelled")
			return nil
		}
		return err
	},
}

// loadConfiguration reads an optional config file and IMG2VID_* env vars
func loadConfiguration(cmd *cobra.Command) error {
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()

	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	if configFile == "" {
		return nil
	}

	viper.SetConfigFile(configFile)
	if readErr := viper.ReadInConfig(); readErr != nil {
		log.Printf("Warning: Could not read config file %s: %v", configFile, readErr)
	}
	return nil
}

// confirmOverwrite asks on the terminal; anything but an explicit yes aborts.
// Ctrl-C and end of input count as no.
func confirmOverwrite(path string) (bool, error) {
	prompt := promptui.Prompt{
		Label: fmt.Sprintf("[WARN] Target file %s exists, overwrite? [y/N]", path),
	}
	return overwriteAnswer(prompt.Run())
}

func overwriteAnswer(answer string, err error) (bool, error) {
	if err == promptui.ErrInterrupt || err == promptui.ErrEOF || err == promptui.ErrAbort {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return isYes(answer), nil
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func init() {
	rootCmd.Flags().StringP(config.KeyFilter, "f", config.DefaultFilterPattern, "Input file name filter regex")
	rootCmd.Flags().BoolP(config.KeyYes, "y", false, "Overwrite an existing output without asking")
	rootCmd.Flags().BoolP(config.KeyVerbose, "v", false, "Enable verbose logging")
	rootCmd.Flags().String(config.KeyFFmpeg, config.DefaultFFmpegPath, "Path to the ffmpeg executable")
	rootCmd.Flags().StringP("config", "c", "", "Optional config file (yaml, json or toml)")

	_ = viper.BindPFlag(config.KeyFilter, rootCmd.Flags().Lookup(config.KeyFilter))
	_ = viper.BindPFlag(config.KeyYes, rootCmd.Flags().Lookup(config.KeyYes))
	_ = viper.BindPFlag(config.KeyVerbose, rootCmd.Flags().Lookup(config.KeyVerbose))
	_ = viper.BindPFlag(config.KeyFFmpeg, rootCmd.Flags().Lookup(config.KeyFFmpeg))
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("[ERROR]", err)
		os.Exit(1)
	}
}
