package ui

import (
	"github.com/hubastard/grovegui/engine/colors"
	"github.com/hubastard/grovegui/engine/imui"
)

// ===== Sizing & layout props =====

type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

type Align int

const (
	Start Align = iota
	Center
	End
	Stretch
)

type SizeMode int

const (
	SizeFit SizeMode = iota
	SizeFixed
	SizeExpand
)

type Sizing struct {
	WMode SizeMode
	HMode SizeMode
	WVal  float32 // for SizeFixed
	HVal  float32 // for SizeFixed
}

func Fit() Sizing            { return Sizing{WMode: SizeFit, HMode: SizeFit} }
func Expand() Sizing         { return Sizing{WMode: SizeExpand, HMode: SizeExpand} }
func Px(w, h float32) Sizing { return Sizing{WMode: SizeFixed, HMode: SizeFixed, WVal: w, HVal: h} }

type Insets4 struct{ L, T, R, B float32 }

func Insets(l, t, r, b float32) Insets4 { return Insets4{l, t, r, b} }
func Uniform(v float32) Insets4         { return Insets4{v, v, v, v} }

// Props configures a view. Its children flow along Axis. A top-level view is
// placed at BoundsX/BoundsY; a nested view is placed by its parent like any
// other child.
type Props struct {
	ID         int // stable id for this view
	Axis       Axis
	MainAlign  Align
	CrossAlign Align
	Sizing     Sizing
	Gap        float32
	Padding    Insets4
	Bg         colors.Color // optional background
	// Clip restricts the children to the view's box.
	Clip bool
	// With SizeExpand, BoundsW/BoundsH is the box to fill; zero means up to
	// the screen edge.
	BoundsX float32
	BoundsY float32
	BoundsW float32
	BoundsH float32
}

// ===== Internal structs =====

type viewScope struct {
	props Props
	// Children recorded during measure phase
	firstCmd int // index in ctx.cmds where children commands begin
	viewCmd  int // command standing for the view itself

	// Measured children
	firstItem int // index in ctx.items
	nItems    int

	// Resolved rect for this view (content box: minus padding)
	x, y, w, h float32
}

type item struct {
	iCmd int     // index into ctx.cmds
	w, h float32 // desired size
}

type cmdKind uint8

const (
	cmdLabel cmdKind = iota
	cmdButton
	cmdBgQuad
	cmdImage
	cmdTextField
	cmdCustom
	cmdView
)

type cmd struct {
	kind cmdKind
	id   int

	// geom (resolved at EndView)
	x, y, w, h float32
	clip       imui.Rect
	// For views: the next span cmds are the view's contents.
	span  int
	clips bool

	// visuals
	text     string
	fontSize float32
	color    imui.Color32
	bg       imui.Color32
	padding  Insets4
	tex      imui.TextureID
	uv       imui.Rect
	callback any
}

func (c *cmd) rect() imui.Rect {
	return imui.RectFromMinSize(imui.P(c.x, c.y), imui.V(c.w, c.h))
}

type widgetState struct {
	hot    bool
	active bool
	rect   imui.Rect // as resolved last frame
}

// ===== Begin/End view =====

func (ctx *Ctx) BeginView(p Props) {
	// push scope
	if len(ctx.viewStack) == cap(ctx.viewStack) {
		// hard cap; bump capViews once if you hit it
		ctx.log.Warn("ui view capacity reached", "cap", cap(ctx.viewStack))
		return
	}
	scope := viewScope{
		props:     p,
		firstItem: len(ctx.items),
		viewCmd:   ctx.emit(cmd{kind: cmdView, id: p.ID, bg: p.Bg.RGBA8(), clips: p.Clip}),
	}
	scope.firstCmd = len(ctx.cmds)
	ctx.viewStack = append(ctx.viewStack, scope)
}

func (ctx *Ctx) EndView() {
	if len(ctx.viewStack) == 0 {
		ctx.log.Warn("ui EndView without BeginView")
		return
	}

	// pop scope
	scope := ctx.viewStack[len(ctx.viewStack)-1]
	ctx.viewStack = ctx.viewStack[:len(ctx.viewStack)-1]
	scope.nItems = len(ctx.items) - scope.firstItem

	// measure total main/cross span
	var totalMain, maxCross float32
	gap := scope.props.Gap
	mainIsX := scope.props.Axis == Horizontal

	for i := 0; i < scope.nItems; i++ {
		it := ctx.items[scope.firstItem+i]
		if mainIsX {
			totalMain += it.w
			maxCross = maxf(maxCross, it.h)
		} else {
			totalMain += it.h
			maxCross = maxf(maxCross, it.w)
		}
	}
	if scope.nItems > 1 {
		totalMain += gap * float32(scope.nItems-1)
	}

	pad := scope.props.Padding
	boundsW, boundsH := scope.props.BoundsW, scope.props.BoundsH
	if boundsW <= 0 {
		boundsW = maxf(0, ctx.screen.Max.X-scope.props.BoundsX)
	}
	if boundsH <= 0 {
		boundsH = maxf(0, ctx.screen.Max.Y-scope.props.BoundsY)
	}

	// resolve self size (outer box)
	var outerW, outerH float32
	switch scope.props.Sizing.WMode {
	case SizeFixed:
		outerW = scope.props.Sizing.WVal
	case SizeExpand:
		outerW = boundsW
	default: // fit
		if mainIsX {
			outerW = totalMain
		} else {
			outerW = maxCross
		}
		outerW += pad.L + pad.R
	}
	switch scope.props.Sizing.HMode {
	case SizeFixed:
		outerH = scope.props.Sizing.HVal
	case SizeExpand:
		outerH = boundsH
	default: // fit
		if mainIsX {
			outerH = maxCross
		} else {
			outerH = totalMain
		}
		outerH += pad.T + pad.B
	}

	scope.x = scope.props.BoundsX + pad.L
	scope.y = scope.props.BoundsY + pad.T
	scope.w = maxf(0, outerW-pad.L-pad.R)
	scope.h = maxf(0, outerH-pad.T-pad.B)

	if scope.viewCmd >= 0 {
		c := &ctx.cmds[scope.viewCmd]
		c.x, c.y, c.w, c.h = scope.props.BoundsX, scope.props.BoundsY, outerW, outerH
		c.span = len(ctx.cmds) - scope.firstCmd
	}

	// compute starting offset for main align
	free := scope.h - totalMain
	if mainIsX {
		free = scope.w - totalMain
	}
	free = maxf(0, free)
	var start float32
	switch scope.props.MainAlign {
	case Center:
		start = free * 0.5
	case End:
		start = free
	}

	// place children
	cursor := start
	for i := 0; i < scope.nItems; i++ {
		it := ctx.items[scope.firstItem+i]
		c := &ctx.cmds[it.iCmd]

		var crossPos float32
		switch scope.props.CrossAlign {
		case Center:
			if mainIsX {
				crossPos = (scope.h - it.h) * 0.5
			} else {
				crossPos = (scope.w - it.w) * 0.5
			}
		case End:
			if mainIsX {
				crossPos = scope.h - it.h
			} else {
				crossPos = scope.w - it.w
			}
		case Stretch:
			// override item size on cross axis
			if mainIsX {
				it.h = scope.h
			} else {
				it.w = scope.w
			}
		}

		var x, y float32
		if mainIsX {
			x, y = scope.x+cursor, scope.y+crossPos
			cursor += it.w
		} else {
			x, y = scope.x+crossPos, scope.y+cursor
			cursor += it.h
		}
		if c.kind == cmdView {
			ctx.shift(it.iCmd+1, c.span, x-c.x, y-c.y)
		}
		c.x, c.y, c.w, c.h = x, y, it.w, it.h
		if i != scope.nItems-1 {
			cursor += gap
		}
	}

	// clear transient items segment
	ctx.items = ctx.items[:scope.firstItem]

	// a nested view is itself a child of the enclosing one
	if scope.viewCmd >= 0 {
		ctx.addItem(item{iCmd: scope.viewCmd, w: outerW, h: outerH})
	}
}

// shift moves n cmds starting at first by (dx, dy).
func (ctx *Ctx) shift(first, n int, dx, dy float32) {
	if dx == 0 && dy == 0 {
		return
	}
	for i := first; i < first+n && i < len(ctx.cmds); i++ {
		ctx.cmds[i].x += dx
		ctx.cmds[i].y += dy
	}
}

func (ctx *Ctx) addItem(it item) {
	if len(ctx.viewStack) == 0 {
		// Outside any view the widget keeps the position it was emitted with.
		return
	}
	if len(ctx.items) == cap(ctx.items) {
		ctx.log.Warn("ui item capacity reached", "cap", cap(ctx.items))
		return
	}
	ctx.items = append(ctx.items, it)
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
