package convert

// Package convert drives the external image tool over the texture trees:
// the pre stage prepares originals for upscaling, the post stage brings the
// upscaled results back into the game's tiers, and Verify checks the
// resulting dimensions.
