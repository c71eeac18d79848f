package uploader_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/uploader"
)

func file(name, ct string, size int) uploader.File {
	return uploader.FromBytes(name, ct, make([]byte, size))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		opts      uploader.Options
		files     []uploader.File
		wantCode  string
		wantErr   error
		wantFile  string
		wantIndex int
	}{
		{
			name:  "no constraints",
			opts:  uploader.Options{},
			files: []uploader.File{file("a.bin", "application/zip", 1)},
		},
		{
			name:  "image accepted",
			opts:  uploader.Options{Accept: "image/*"},
			files: []uploader.File{file("a.png", "image/png", 1), file("b.jpg", "image/jpeg", 1)},
		},
		{
			name:     "image rejects video",
			opts:     uploader.Options{Accept: "image/*"},
			files:    []uploader.File{file("a.png", "image/png", 1), file("c.mp4", "video/mp4", 1)},
			wantCode: uploader.CodeInvalidType, wantErr: uploader.ErrInvalidType,
			wantFile: "c.mp4", wantIndex: 1,
		},
		{
			name:     "video rejects image",
			opts:     uploader.Options{Accept: "video/mp4"},
			files:    []uploader.File{file("a.png", "image/png", 1)},
			wantCode: uploader.CodeInvalidType, wantErr: uploader.ErrInvalidType,
			wantFile: "a.png",
		},
		{
			name:     "image wins when both appear",
			opts:     uploader.Options{Accept: "video/*,image/*"},
			files:    []uploader.File{file("c.mp4", "video/mp4", 1)},
			wantCode: uploader.CodeInvalidType, wantErr: uploader.ErrInvalidType,
			wantFile: "c.mp4",
		},
		{
			name:  "other accept values are not enforced",
			opts:  uploader.Options{Accept: "application/pdf"},
			files: []uploader.File{file("c.mp4", "video/mp4", 1)},
		},
		{
			name:     "below minimum",
			opts:     uploader.Options{MinSize: 100},
			files:    []uploader.File{file("small.png", "image/png", 99)},
			wantCode: uploader.CodeFileTooSmall, wantErr: uploader.ErrFileTooSmall,
			wantFile: "small.png",
		},
		{
			name:  "bounds are inclusive",
			opts:  uploader.Options{MinSize: 10, MaxSize: 10},
			files: []uploader.File{file("exact.png", "image/png", 10)},
		},
		{
			name:     "above maximum",
			opts:     uploader.Options{MaxSize: 100},
			files:    []uploader.File{file("ok.png", "image/png", 100), file("big.png", "image/png", 101)},
			wantCode: uploader.CodeFileTooLarge, wantErr: uploader.ErrFileTooLarge,
			wantFile: "big.png", wantIndex: 1,
		},
		{
			name:  "zero bounds are unset",
			opts:  uploader.Options{MinSize: 0, MaxSize: 0},
			files: []uploader.File{file("empty.png", "image/png", 0)},
		},
		{
			name: "type checked before size across files",
			opts: uploader.Options{Accept: "image/*", MaxSize: 10},
			files: []uploader.File{
				file("big.png", "image/png", 50),
				file("c.mp4", "video/mp4", 1),
			},
			wantCode: uploader.CodeInvalidType, wantErr: uploader.ErrInvalidType,
			wantFile: "c.mp4", wantIndex: 1,
		},
		{
			name: "sizes checked in file order",
			opts: uploader.Options{MinSize: 10, MaxSize: 20},
			files: []uploader.File{
				file("big.png", "image/png", 50),
				file("small.png", "image/png", 1),
			},
			wantCode: uploader.CodeFileTooLarge, wantErr: uploader.ErrFileTooLarge,
			wantFile: "big.png",
		},
		{
			name:  "empty selection",
			opts:  uploader.Options{Accept: "image/*", MinSize: 1},
			files: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := uploader.Validate(tt.files, tt.opts)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.wantErr)

			var verr *uploader.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantCode, verr.Code)
			assert.Equal(t, tt.wantFile, verr.File)
			assert.Equal(t, tt.wantIndex, verr.Index)
			assert.Equal(t, verr.Message, verr.Error())
		})
	}
}

func TestValidationError_Messages(t *testing.T) {
	t.Parallel()

	tooSmall := uploader.Validate([]uploader.File{file("a.png", "image/png", 10)}, uploader.Options{MinSize: 100})
	tooLarge := uploader.Validate([]uploader.File{file("a.png", "image/png", 500)}, uploader.Options{MaxSize: 100})
	badType := uploader.Validate([]uploader.File{file("a.mp4", "video/mp4", 1)}, uploader.Options{Accept: "image/*"})

	var small, large, typ *uploader.ValidationError
	require.ErrorAs(t, tooSmall, &small)
	require.ErrorAs(t, tooLarge, &large)
	require.ErrorAs(t, badType, &typ)

	assert.Equal(t, "file a.png is too small: 10 bytes, minimum is 100 bytes", small.Message)
	assert.Equal(t, "file a.png is too large: 500 bytes, maximum is 100 bytes", large.Message)
	assert.Equal(t, `file a.mp4 has type "video/mp4", expected image`, typ.Message)

	assert.Equal(t, map[string]any{"limit": int64(100), "got": int64(10)}, small.Details)
	assert.Equal(t, map[string]any{"accept": "image/*", "got": "video/mp4"}, typ.Details)

	tests := []struct {
		name string
		err  *uploader.ValidationError
		tag  language.Tag
		want string
	}{
		{"english small", small, language.English, small.Message},
		{"chinese small", small, language.Chinese, "上传文件不能小于 100 字节: a.png 为 10 字节"},
		{"regional chinese large", large, language.MustParse("zh-CN"), "上传文件不能大于 100 字节: a.png 为 500 字节"},
		{"chinese type", typ, language.Chinese, `上传文件类型错误: a.mp4 不是 image 类型 ("video/mp4")`},
		{"unsupported falls back", large, language.French, large.Message},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Localize(tt.tag))
		})
	}
}
