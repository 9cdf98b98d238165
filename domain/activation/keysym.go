package activation

// keysym maps a parsed key to its X11 keysym, or 0.
func keysym(k string) uint32 {
	if n, ok := functionKey(k); ok && n >= 1 && n <= 12 {
		return 0xffbe + uint32(n-1) // XK_F1
	}
	switch k {
	case "space":
		return 0x20
	case "escape":
		return 0xff1b
	}
	if len(k) == 1 {
		c := k[0]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			return uint32(c)
		}
	}
	return 0
}
