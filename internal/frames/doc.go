// Package frames picks evenly spaced frames from a video and turns them into
// enhanced JPEG files using a bounded pool of workers.
package frames
