// Package plot draws static 3D scatter and line figures onto a pixel Canvas.
//
// A Figure holds labelled Series in data coordinates. Render fits the data
// into a cube with "nice" tick-aligned bounds, projects it with a yaw/pitch
// camera (Z up), and rasterizes:
//
//	background → title → box + ticks → axis labels → lines → markers → legend
//
// Lines and markers share a byte depth buffer so nearer geometry wins.
// Text uses the 6x8 bitmap font through tinyfont, so any drivers.Displayer
// with FillRectangle can serve as a Canvas.
package plot
