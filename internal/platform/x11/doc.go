// Package x11 provides the X11 window system backend using xgb and xgbutil.
// Windows are dragged with a modifier+button binding on the root window and
// thrown on release. A running display ($DISPLAY) is required.
package x11
