package cli

// Key is a decoded console command.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyBack
	KeyActivate
	KeyHelp
	KeyQuit
)

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyBack:
		return "back"
	case KeyActivate:
		return "activate"
	case KeyHelp:
		return "help"
	case KeyQuit:
		return "quit"
	}
	return "none"
}

// KeyDecoder turns raw terminal bytes into keys. It keeps partial escape
// sequences between calls, since a read may end in the middle of one.
type KeyDecoder struct {
	pending []byte
}

// Feed decodes buf and returns the complete keys it contains.
// Unmapped bytes are dropped.
func (d *KeyDecoder) Feed(buf []byte) []Key {
	data := append(d.pending, buf...)
	d.pending = nil

	var keys []Key
	for i := 0; i < len(data); {
		b := data[i]
		if b != 0x1b {
			if k := plainKey(b); k != KeyNone {
				keys = append(keys, k)
			}
			i++
			continue
		}

		// ESC [ X or ESC O X
		if i+1 >= len(data) {
			d.pending = append(d.pending, data[i:]...)
			break
		}
		if data[i+1] != '[' && data[i+1] != 'O' {
			// Bare escape followed by something else: treat ESC as back.
			keys = append(keys, KeyBack)
			i++
			continue
		}
		if i+2 >= len(data) {
			d.pending = append(d.pending, data[i:]...)
			break
		}
		switch data[i+2] {
		case 'A':
			keys = append(keys, KeyUp)
		case 'B':
			keys = append(keys, KeyDown)
		case 'C':
			keys = append(keys, KeyActivate)
		case 'D':
			keys = append(keys, KeyBack)
		}
		i += 3
	}
	return keys
}

// Flush reports a lone escape left pending as back.
func (d *KeyDecoder) Flush() []Key {
	if len(d.pending) == 1 && d.pending[0] == 0x1b {
		d.pending = nil
		return []Key{KeyBack}
	}
	d.pending = nil
	return nil
}

func plainKey(b byte) Key {
	switch b {
	case 'k', 'w':
		return KeyUp
	case 'j', 's':
		return KeyDown
	case 'h', 'a', 0x7f, 0x08:
		return KeyBack
	case 'l', 'd', '\r', '\n', ' ':
		return KeyActivate
	case '?':
		return KeyHelp
	case 'q', 0x03, 0x04:
		return KeyQuit
	}
	return KeyNone
}
