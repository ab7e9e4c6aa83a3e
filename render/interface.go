package render

// LayerRenderer is one pass of the scene draw
type LayerRenderer interface {
	Render(ctx *FrameContext, s Surface)
}

// VisibilityToggle is optionally implemented for runtime enable/disable
type VisibilityToggle interface {
	IsVisible(opts *Options) bool
}

// ScreenSpace is implemented by layers drawn after the camera transform is restored
type ScreenSpace interface {
	ScreenSpace() bool
}
