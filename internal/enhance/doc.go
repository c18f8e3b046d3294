// Package enhance improves extracted frames with a fixed chain of filters:
// contrast limited adaptive histogram equalization on the lightness channel,
// a 3x3 sharpening kernel, and non-local means denoising in Lab space.
//
// All filters work on 8-bit channel planes and accept frames of any size.
package enhance
