package bridge

import (
	"github.com/hubastard/grovegui/engine/core"
	"github.com/hubastard/grovegui/engine/imui"
)

var keyTable = map[core.Key]imui.Key{
	core.KeyEscape:     imui.KeyEscape,
	core.KeySpace:      imui.KeySpace,
	core.KeyEnter:      imui.KeyEnter,
	core.KeyBackspace:  imui.KeyBackspace,
	core.KeyTab:        imui.KeyTab,
	core.KeyDelete:     imui.KeyDelete,
	core.KeyInsert:     imui.KeyInsert,
	core.KeyHome:       imui.KeyHome,
	core.KeyEnd:        imui.KeyEnd,
	core.KeyArrowLeft:  imui.KeyArrowLeft,
	core.KeyArrowRight: imui.KeyArrowRight,
	core.KeyArrowUp:    imui.KeyArrowUp,
	core.KeyArrowDown:  imui.KeyArrowDown,
	core.KeyPageUp:     imui.KeyPageUp,
	core.KeyPageDown:   imui.KeyPageDown,
}

func init() {
	for i := 0; i < 10; i++ {
		keyTable[core.KeyDigit0+core.Key(i)] = imui.KeyNum0 + imui.Key(i)
		keyTable[core.KeyNumpad0+core.Key(i)] = imui.KeyNum0 + imui.Key(i)
	}
	for i := 0; i < 26; i++ {
		keyTable[core.KeyA+core.Key(i)] = imui.KeyA + imui.Key(i)
	}
}

// uiKey looks k up in the fixed table; ok is false for keys the UI library has
// no name for.
func uiKey(k core.Key) (imui.Key, bool) {
	key, ok := keyTable[k]
	return key, ok
}

// keyChar is the lower-case character a key types, if any.
func keyChar(k imui.Key) (rune, bool) {
	switch {
	case k >= imui.KeyA && k <= imui.KeyZ:
		return 'a' + rune(k-imui.KeyA), true
	case k >= imui.KeyNum0 && k <= imui.KeyNum9:
		return '0' + rune(k-imui.KeyNum0), true
	case k == imui.KeySpace:
		return ' ', true
	}
	return 0, false
}
