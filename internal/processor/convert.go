package processor

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ZacxDev/images-to-video/internal/config"
	"github.com/ZacxDev/images-to-video/internal/ffmpeg"
	"github.com/ZacxDev/images-to-video/internal/frame"
	"github.com/ZacxDev/images-to-video/internal/platform"
	"github.com/ZacxDev/images-to-video/pkg/types"
	"github.com/pkg/errors"
)

// Process runs the whole conversion: list, encode every frame with its
// subtitle blocks, merge, clean up.
func (c *Converter) Process(ctx context.Context) error {
	target := c.opts.Output

	plat, err := platform.Get(target.Format)
	if err != nil {
		return errors.WithStack(err)
	}

	matcher, err := compileFilter(c.opts.FilterPattern)
	if err != nil {
		return err
	}

	pattern := filepath.Join(c.opts.InputPath, c.opts.FilterPattern)
	files, err := ListInputs(c.opts.InputPath, matcher)
	if err != nil {
		return types.NewError(types.NoMatchingInput, pattern, err)
	}
	if len(files) == 0 {
		return types.NewError(types.NoMatchingInput, pattern, nil)
	}

	if c.opts.Verbose {
		log.Printf("Found %d input files matching %s\n", len(files), pattern)
	}

	if err := c.prepareOutput(target); err != nil {
		return err
	}

	sess, err := openSession(target, plat, files, c.console)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := c.encode(ctx, sess); err != nil {
		return err
	}
	// every stream must be flushed before the merge reads it
	if err := sess.Close(); err != nil {
		return errors.Wrap(err, "failed to close output streams")
	}

	return c.merge(ctx, sess)
}

func (c *Converter) prepareOutput(target config.OutputTarget) error {
	if _, err := os.Stat(target.Dir); os.IsNotExist(err) {
		if err := os.MkdirAll(target.Dir, 0o755); err != nil {
			return errors.Wrapf(err, "error creating output directory %s", target.Dir)
		}
		fmt.Fprintf(c.console, "[INFO] Create new directory: %s\n", target.Dir)
	}

	if _, err := os.Stat(target.Path()); err == nil && !c.opts.AssumeYes {
		fmt.Fprintf(c.console, "[INFO] Target file: %s\n", target.Path())
		ok, err := c.confirm.ConfirmOverwrite(target.Path())
		if err != nil {
			return errors.Wrap(err, "overwrite confirmation failed")
		}
		if !ok {
			return types.NewError(types.OutputExistsDeclined, target.Path(), nil)
		}
	}
	return nil
}

// encode submits every file once in listing order, then the last file once
// more at index Total so the final image holds for a full second.
func (c *Converter) encode(ctx context.Context, sess *Session) error {
	for i, path := range sess.Files {
		sess.Frame = i
		if err := c.addImage(ctx, sess, path); err != nil {
			return err
		}
	}

	sess.Frame = sess.Total
	return c.addImage(ctx, sess, sess.Files[len(sess.Files)-1])
}

// addImage runs the per-frame pipeline: classify, normalize, append to the
// video, then write the three subtitle blocks for the same frame index.
func (c *Converter) addImage(ctx context.Context, sess *Session, path string) error {
	img, err := frame.Decode(path)
	if err != nil {
		return types.NewError(types.UnreadableImage, path, err)
	}

	cls := sess.Sizer.Classify(img)
	canvas, _ := sess.Sizer.Canvas()

	if sess.Video == nil {
		fmt.Fprintf(c.console, "[INFO] Set video size: %s\n", canvas)
		sess.Video, err = c.encoder.OpenFrameWriter(ctx, sess.Target.TempVideoPath(), canvas.Width, canvas.Height, sess.Platform)
		if err != nil {
			return errors.Wrap(err, "failed to open temp video")
		}
	}

	out := frame.Normalize(img, cls, canvas)
	sess.Status.Printf("%s| %s %dx%d %d/%d",
		cls.Status(), path, out.Rect.Dx(), out.Rect.Dy(), sess.Frame, sess.Total)

	if err := sess.Video.WriteFrame(out); err != nil {
		return errors.Wrapf(err, "failed to append %s", path)
	}

	rec, err := c.metadata.Read(path)
	if err != nil {
		return types.NewError(types.UnreadableImage, path, err)
	}
	return sess.Tracks.Emit(sess.Frame, rec)
}

// merge multiplexes the temp video and tracks. Temp files are removed only
// when the merge succeeds.
func (c *Converter) merge(ctx context.Context, sess *Session) error {
	target := sess.Target
	req := ffmpeg.MuxRequest{
		VideoPath: target.TempVideoPath(),
		Tracks: []ffmpeg.SubtitleTrack{
			{Path: target.ShortTrackPath(), Handler: config.ShortTrackHandler},
			{Path: target.FullTrackPath(), Handler: config.FullTrackHandler},
			{Path: target.StructuredTrackPath(), Handler: config.StructuredTrackHandler},
		},
		OutputPath: target.Path(),
		Platform:   sess.Platform,
	}

	if err := c.encoder.Mux(ctx, req); err != nil {
		fmt.Fprintf(c.console, "[ERROR] An error occurred while merging %s\n", target.Path())
		appendRunLog(target, "[ERROR] %s: %v", types.MergeFailed, err)
		return types.NewError(types.MergeFailed, target.Path(), err)
	}

	for _, p := range target.TempPaths() {
		if err := os.Remove(p); err != nil {
			log.Printf("Warning: failed to remove %s: %v", p, err)
		}
	}
	appendRunLog(target, "[INFO] Merged %d frames into %s", sess.Total+1, target.Path())

	if c.opts.Verbose {
		if md, err := c.encoder.GetVideoMetadata(target.Path()); err == nil {
			log.Printf("Output: Duration=%.2fs, Resolution=%dx%d, Codec=%s, Subtitles=%d\n",
				md.Duration, md.Width, md.Height, md.Codec, md.SubtitleStreams)
		} else {
			log.Printf("Warning: could not probe %s: %v", target.Path(), err)
		}
	}
	return nil
}
