package ssfs

import "github.com/klauspost/compress/zstd"

func init() {
	RegisterCompHandler(ZSTD, &CompHandler{
		Compress: func(p []byte) ([]byte, error) {
			w, err := zstd.NewWriter(nil)
			if err != nil {
				return nil, err
			}
			out := w.EncodeAll(p, nil)
			w.Close()
			return out, nil
		},
		Decompress: func(p []byte) ([]byte, error) {
			r, err := zstd.NewReader(nil)
			if err != nil {
				return nil, err
			}
			defer r.Close()
			return r.DecodeAll(p, nil)
		},
	})
}
