package vm

import (
	"encoding/binary"
	goIO "io"
	"os"
)

// parseImage splits an image into its origin and the words stored from it.
// The image is a sequence of big endian words, the first being the origin.
func parseImage(data []byte) (origin word, words []word, err error) {
	if len(data) < 4 {
		return 0, nil, errImageShort
	}
	if len(data)%2 != 0 {
		return 0, nil, errImageOdd
	}

	origin = word(binary.BigEndian.Uint16(data))
	data = data[2:]
	if int(origin)+len(data)/2 > MemorySize {
		return 0, nil, errImageLarge
	}

	words = make([]word, len(data)/2)
	for i := range words {
		words[i] = word(binary.BigEndian.Uint16(data[2*i:]))
	}
	return origin, words, nil
}

// LoadImage reads an image from r into memory. name is used in errors.
func (vm *VM) LoadImage(name string, r goIO.Reader) error {
	data, err := goIO.ReadAll(r)
	if err != nil {
		return &ImageError{Path: name, Err: err}
	}

	origin, words, err := parseImage(data)
	if err != nil {
		return &ImageError{Path: name, Err: err}
	}

	vm.memory.Load(origin, words)
	vm.logger.Printf("%s: loaded %d words at 0x%04x", name, len(words), origin)
	return nil
}

func (vm *VM) LoadImageFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return &ImageError{Path: path, Err: err}
	}
	defer file.Close()

	return vm.LoadImage(path, file)
}
