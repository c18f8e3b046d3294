// Command yt-frames downloads a YouTube video and extracts enhanced frames
// from it without the desktop UI.
package main

func main() {
	Execute()
}
