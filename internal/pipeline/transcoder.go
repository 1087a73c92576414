// SPDX-License-Identifier: MIT

package pipeline

// transcoderArgs builds the argument list for the transcoder. Input is always
// stdin, output always stdout. Video mode copies the video stream untouched
// and re-encodes audio to AAC; fragmented movflags let the muxer write the
// MP4 progressively without seeking back, which a streaming response body
// requires.
func transcoderArgs(audioOnly bool) []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", "pipe:0",
	}
	if audioOnly {
		args = append(args, "-vn")
	} else {
		args = append(args, "-c:v", "copy")
	}
	args = append(args,
		"-c:a", "aac",
		"-b:a", "192k",
		"-movflags", "frag_keyframe+empty_moov",
		"-f", "mp4",
		"pipe:1",
	)
	return args
}
