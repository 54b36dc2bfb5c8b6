package piste

import (
	"context"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	xdraw "golang.org/x/image/draw"
)

// Asset is an image that may still be loading. Sprites hold an Asset and
// draw nothing until it resolves.
type Asset struct {
	done chan struct{}
	img  *ebiten.Image
	err  error
}

// ResolvedAsset wraps an image that is already available.
func ResolvedAsset(img *ebiten.Image) *Asset {
	a := &Asset{done: make(chan struct{}), img: img}
	close(a.done)
	return a
}

// FailedAsset returns an asset that resolved with err.
func FailedAsset(err error) *Asset {
	a := &Asset{done: make(chan struct{}), err: err}
	close(a.done)
	return a
}

// LoadAsset runs load in its own goroutine and returns an asset that resolves
// when it finishes.
func LoadAsset(load func() (*ebiten.Image, error)) *Asset {
	a := &Asset{done: make(chan struct{})}
	go func() {
		a.img, a.err = load()
		close(a.done)
	}()
	return a
}

// Image returns the image if it has resolved, or nil. It never blocks.
func (a *Asset) Image() *ebiten.Image {
	if a == nil {
		return nil
	}
	select {
	case <-a.done:
		return a.img
	default:
		return nil
	}
}

// Wait blocks until the asset resolves or ctx is done and returns the load
// error, if any.
func (a *Asset) Wait(ctx context.Context) error {
	select {
	case <-a.done:
		return a.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AssetLoader decodes images from a file system. Each path is loaded at most
// once; repeated requests share the same Asset.
type AssetLoader struct {
	fsys fs.FS

	mu     sync.Mutex
	assets map[assetKey]*Asset
}

type assetKey struct {
	path        string
	transparent bool
}

// NewAssetLoader creates a loader reading from fsys.
func NewAssetLoader(fsys fs.FS) *AssetLoader {
	return &AssetLoader{fsys: fsys, assets: make(map[assetKey]*Asset)}
}

// Load returns the asset for path, starting the decode on first use.
func (l *AssetLoader) Load(path string) *Asset {
	return l.load(assetKey{path: path})
}

// LoadTransparent is like Load but turns pure white pixels transparent,
// for sheets authored without an alpha channel.
func (l *AssetLoader) LoadTransparent(path string) *Asset {
	return l.load(assetKey{path: path, transparent: true})
}

// Forget drops the cached asset for path so the next Load decodes it again.
func (l *AssetLoader) Forget(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.assets, assetKey{path: path})
	delete(l.assets, assetKey{path: path, transparent: true})
}

func (l *AssetLoader) load(key assetKey) *Asset {
	l.mu.Lock()
	defer l.mu.Unlock()
	if a, ok := l.assets[key]; ok {
		return a
	}
	a := LoadAsset(func() (*ebiten.Image, error) {
		img, err := decodeImage(l.fsys, key.path)
		if err != nil {
			return nil, err
		}
		if key.transparent {
			img = WhiteToTransparent(img)
		}
		return ebiten.NewImageFromImage(img), nil
	})
	l.assets[key] = a
	return a
}

func decodeImage(fsys fs.FS, path string) (image.Image, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("piste: open image %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("piste: decode image %s: %w", path, err)
	}
	return img, nil
}

// WhiteToTransparent returns a copy of src where every opaque pure white
// pixel has zero alpha.
func WhiteToTransparent(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(dst, image.Point{}, src, b, xdraw.Src, nil)
	for i := 0; i < len(dst.Pix); i += 4 {
		if dst.Pix[i] == 0xff && dst.Pix[i+1] == 0xff && dst.Pix[i+2] == 0xff {
			dst.Pix[i+3] = 0
		}
	}
	return dst
}
