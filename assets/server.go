// Package assets loads images from a file system and hands them to an app
// as typed collections once every file of a collection is ready.
package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/gemboard/internal/logging"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound   = errors.New("assets: not found")
	ErrDecode     = errors.New("assets: cannot decode image")
	ErrCollection = errors.New("assets: invalid collection")
)

// Image is a decoded image. The GPU copy is created on first use by Ebiten,
// so images can be decoded on any goroutine.
type Image struct {
	Path   string
	Source image.Image

	gpu *ebiten.Image
}

// Size returns the pixel size of the image.
func (i *Image) Size() (width, height int) {
	b := i.Source.Bounds()
	return b.Dx(), b.Dy()
}

// Ebiten returns the image as an *ebiten.Image. Call it only from the game
// goroutine.
func (i *Image) Ebiten() *ebiten.Image {
	if i.gpu == nil {
		i.gpu = ebiten.NewImageFromImage(i.Source)
	}
	return i.gpu
}

// Server decodes images from fsys. Concurrent loads of one path share a
// single decode and results are cached for the server's lifetime.
type Server struct {
	fsys  fs.FS
	group singleflight.Group

	mu    sync.RWMutex
	cache map[string]*Image

	log *logrus.Entry
}

func NewServer(fsys fs.FS) *Server {
	return &Server{
		fsys:  fsys,
		cache: make(map[string]*Image),
		log:   logging.For("assets"),
	}
}

// Cached returns a previously loaded image.
func (s *Server) Cached(path string) (*Image, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.cache[path]
	return img, ok
}

// Load returns the image at path, decoding it on first use.
func (s *Server) Load(ctx context.Context, path string) (*Image, error) {
	if img, ok := s.Cached(path); ok {
		return img, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := s.group.DoChan(path, func() (any, error) {
		img, err := s.decode(path)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cache[path] = img
		s.mu.Unlock()
		return img, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Image), nil
	}
}

func (s *Server) decode(path string) (*Image, error) {
	if !fs.ValidPath(path) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
	}

	f, err := s.fsys.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("assets: open %s: %w", path, err)
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrDecode, path, err)
	}

	b := src.Bounds()
	s.log.WithFields(logrus.Fields{
		"path":   path,
		"format": format,
		"width":  b.Dx(),
		"height": b.Dy(),
	}).Debug("decoded image")

	return &Image{Path: path, Source: src}, nil
}
