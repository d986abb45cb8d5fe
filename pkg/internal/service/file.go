package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/yeisme/sharevault/pkg/cache"
	ctxPkg "github.com/yeisme/sharevault/pkg/context"
	"github.com/yeisme/sharevault/pkg/internal/model"
	"github.com/yeisme/sharevault/pkg/internal/storage/blob"
	"github.com/yeisme/sharevault/pkg/internal/storage/db"
	nlog "github.com/yeisme/sharevault/pkg/log"
	"github.com/yeisme/sharevault/pkg/metrics"
	"github.com/yeisme/sharevault/pkg/queue"
	"github.com/yeisme/sharevault/pkg/tracing"
)

// Upload 一次上传的内容.Content 为 nil 视为未提供文件.
type Upload struct {
	Filename string
	Content  io.Reader
}

// FileContent 下载结果，调用方负责关闭 Content.
type FileContent struct {
	Record  model.FileRecord
	Content io.ReadCloser
	// Size 为存储中内容的实际大小
	Size int64
}

// FileService 负责文件生命周期：上传、替换、删除、下载与元数据查询.
type FileService struct {
	deps Deps
}

// NewFileService 从 context 获取依赖实例.
func NewFileService(c context.Context) *FileService {
	return NewFileServiceWith(DepsFromContext(c))
}

// NewFileServiceWith 使用显式依赖创建服务.
func NewFileServiceWith(deps Deps) *FileService {
	return &FileService{deps: deps.normalize()}
}

// Upload 在工作区中创建新文件.
// 同名文件已存在返回 ErrDuplicateName；并发创建同名文件时由唯一索引兜底，返回 ErrConflict.
func (s *FileService) Upload(ctx context.Context, who ctxPkg.Identity, up *Upload) (rec *model.FileRecord, err error) {
	ctx, span := tracing.StartSpan(ctx, "FileService.Upload")
	defer func() {
		tracing.EndSpan(span, err)
		metrics.ObserveFileOp("upload", resultOf(err))
	}()

	if up == nil || up.Content == nil {
		return nil, ErrMissingFile
	}

	name, err := normalizeName(up.Filename)
	if err != nil {
		return nil, err
	}

	files := s.deps.DB.Files()

	exists, err := files.ExistsByName(ctx, s.deps.Workspace, name)
	if err != nil {
		return nil, err
	}

	if exists {
		return nil, ErrDuplicateName
	}

	now := s.deps.Now().UTC()

	staged, err := s.deps.Blob.Stage(ctx, blob.NewKey(s.deps.Workspace, now), up.Content)
	if err != nil {
		return nil, storageErr("stage upload", err)
	}

	rec = &model.FileRecord{
		Workspace:    s.deps.Workspace,
		Name:         name,
		Type:         DeriveType(name),
		Size:         staged.Size,
		StoragePath:  staged.Key,
		Checksum:     staged.Checksum,
		CreatedAt:    now,
		ModifiedAt:   now,
		UploaderID:   who.UserID,
		UploaderName: who.Username,
		EditorID:     who.UserID,
		EditorName:   who.Username,
	}

	var committed bool

	err = s.deps.DB.Transaction(ctx, func(tx *gorm.DB) error {
		if err := files.WithTx(tx).Create(ctx, rec); err != nil {
			return err
		}

		if err := staged.Commit(ctx); err != nil {
			return storageErr("commit upload", err)
		}

		committed = true

		return nil
	})
	if err != nil {
		s.abortUpload(ctx, staged, committed)

		if errors.Is(err, db.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %w", ErrConflict, err)
		}

		return nil, err
	}

	metrics.FileBytes.WithLabelValues("in").Add(float64(rec.Size))
	s.invalidate(ctx, rec.FileID)
	s.deps.Events.FileUploaded(ctx, queue.FileUploadedPayload{File: fileRef(rec), Actor: actor(who)})

	s.logger(ctx).Info().
		Uint("file_id", rec.FileID).
		Str("name", rec.Name).
		Int64("size", rec.Size).
		Uint("user_id", who.UserID).
		Msg("file uploaded")

	return rec, nil
}

// abortUpload 清理失败上传留下的内容；已发布的内容同样删除，失败时留给对账.
func (s *FileService) abortUpload(ctx context.Context, staged *blob.Staged, committed bool) {
	if !committed {
		if err := staged.Discard(ctx); err != nil {
			s.logger(ctx).Warn().Err(err).Str("key", staged.Key).Msg("discard staged blob failed")
		}

		return
	}

	if err := s.deps.Blob.Delete(ctx, staged.Key); err != nil {
		s.logger(ctx).Warn().Err(err).Str("key", staged.Key).Msg("remove uncommitted blob failed")
	}
}

// Replace 用新内容替换已有文件，只有上传者可以替换，文件名与类型保持不变.
func (s *FileService) Replace(ctx context.Context, who ctxPkg.Identity, id uint, up *Upload) (rec *model.FileRecord, err error) {
	ctx, span := tracing.StartSpan(ctx, "FileService.Replace")
	defer func() {
		tracing.EndSpan(span, err)
		metrics.ObserveFileOp("replace", resultOf(err))
	}()

	rec, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !rec.OwnedBy(who.UserID) {
		return nil, ErrAccessDenied
	}

	if up == nil || up.Content == nil {
		return nil, ErrMissingFile
	}

	if got := DeriveType(BaseName(up.Filename)); got != rec.Type {
		return nil, &TypeMismatchError{Expected: rec.Type, Got: got}
	}

	staged, err := s.deps.Blob.Stage(ctx, rec.StoragePath, up.Content)
	if err != nil {
		return nil, storageErr("stage replacement", err)
	}

	prevSize, prevChecksum := rec.Size, rec.Checksum
	update := db.ContentUpdate{
		Size:       staged.Size,
		Checksum:   staged.Checksum,
		EditorID:   who.UserID,
		EditorName: who.Username,
		ModifiedAt: s.deps.Now().UTC(),
	}

	err = s.deps.DB.Transaction(ctx, func(tx *gorm.DB) error {
		n, err := s.deps.DB.Files().WithTx(tx).UpdateContent(ctx, s.deps.Workspace, id, who.UserID, update)
		if err != nil {
			return err
		}

		if n == 0 {
			return ErrConflict
		}

		if err := staged.Commit(ctx); err != nil {
			return storageErr("commit replacement", err)
		}

		return nil
	})
	if err != nil {
		if dErr := staged.Discard(ctx); dErr != nil {
			s.logger(ctx).Warn().Err(dErr).Str("key", staged.Key).Msg("discard staged blob failed")
		}

		return nil, err
	}

	rec.Size = update.Size
	rec.Checksum = update.Checksum
	rec.EditorID = update.EditorID
	rec.EditorName = update.EditorName
	rec.ModifiedAt = update.ModifiedAt

	metrics.FileBytes.WithLabelValues("in").Add(float64(rec.Size))
	s.invalidate(ctx, id)
	s.deps.Events.FileReplaced(ctx, queue.FileReplacedPayload{
		File:         fileRef(rec),
		Actor:        actor(who),
		PrevSize:     prevSize,
		PrevChecksum: prevChecksum,
	})

	s.logger(ctx).Info().
		Uint("file_id", id).
		Int64("size", rec.Size).
		Uint("user_id", who.UserID).
		Msg("file replaced")

	return rec, nil
}

// Delete 删除文件及其内容，只有上传者可以删除.
// 内容删除失败只记录日志，残留内容由对账清理.
func (s *FileService) Delete(ctx context.Context, who ctxPkg.Identity, id uint) (err error) {
	ctx, span := tracing.StartSpan(ctx, "FileService.Delete")
	defer func() {
		tracing.EndSpan(span, err)
		metrics.ObserveFileOp("delete", resultOf(err))
	}()

	rec, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if !rec.OwnedBy(who.UserID) {
		return ErrAccessDenied
	}

	blobRemoved := true
	if err := s.deps.Blob.Delete(ctx, rec.StoragePath); err != nil {
		blobRemoved = false

		s.logger(ctx).Error().Err(err).
			Uint("file_id", id).
			Str("key", rec.StoragePath).
			Msg("remove blob failed")
	}

	n, err := s.deps.DB.Files().Delete(ctx, s.deps.Workspace, id, who.UserID)
	if err != nil {
		return err
	}

	if n == 0 {
		return ErrConflict
	}

	s.invalidate(ctx, id)
	s.deps.Events.FileDeleted(ctx, queue.FileDeletedPayload{
		File:        fileRef(rec),
		Actor:       actor(who),
		BlobRemoved: blobRemoved,
	})

	s.logger(ctx).Info().Uint("file_id", id).Uint("user_id", who.UserID).Msg("file deleted")

	return nil
}

// Download 打开文件内容，任何已认证用户都可以下载.
func (s *FileService) Download(ctx context.Context, id uint) (fc *FileContent, err error) {
	ctx, span := tracing.StartSpan(ctx, "FileService.Download")
	defer func() {
		tracing.EndSpan(span, err)
		metrics.ObserveFileOp("download", resultOf(err))
	}()

	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	rc, info, err := s.deps.Blob.Open(ctx, rec.StoragePath)
	if err != nil {
		if errors.Is(err, blob.ErrNotExist) {
			s.logger(ctx).Warn().Uint("file_id", id).Str("key", rec.StoragePath).Msg("blob missing for file")

			return nil, ErrNotFoundOnDisk
		}

		return nil, storageErr("open blob", err)
	}

	metrics.FileBytes.WithLabelValues("out").Add(float64(info.Size))

	return &FileContent{Record: *rec, Content: rc, Size: info.Size}, nil
}

// GetMetadata 返回文件元数据，经过元数据缓存.
func (s *FileService) GetMetadata(ctx context.Context, id uint) (rec *model.FileRecord, err error) {
	ctx, span := tracing.StartSpan(ctx, "FileService.GetMetadata")
	defer func() { tracing.EndSpan(span, err) }()

	load := func(ctx context.Context) (model.FileRecord, error) {
		r, err := s.load(ctx, id)
		if err != nil {
			return model.FileRecord{}, err
		}

		return *r, nil
	}

	key, ok := s.metaKey(ctx, id)
	if !ok {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}

		return &v, nil
	}

	v, err := cache.GetOrSet(ctx, s.deps.Cache, key, s.deps.MetaTTL, load)
	if err != nil {
		return nil, err
	}

	return &v, nil
}

// load 直接从元数据库读取记录.
func (s *FileService) load(ctx context.Context, id uint) (*model.FileRecord, error) {
	rec, err := s.deps.DB.Files().Get(ctx, s.deps.Workspace, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return rec, nil
}

// metaKey 元数据缓存键包含工作区代际令牌，
// 回源期间发生的写操作会更换令牌，迟到的写回落在失效的键上.
func (s *FileService) metaKey(ctx context.Context, id uint) (string, bool) {
	if !s.deps.Cache.Enabled() {
		return "", false
	}

	gen, err := s.deps.Cache.Generation(ctx, listScope(s.deps.Workspace))
	if err != nil {
		s.logger(ctx).Warn().Err(err).Msg("read cache generation failed")
		return "", false
	}

	return s.deps.Cache.Key("files", "meta", s.deps.Workspace, gen, strconv.FormatUint(uint64(id), 10)), true
}

// invalidate 更换工作区代际令牌，使列表与元数据缓存一并失效.
func (s *FileService) invalidate(ctx context.Context, id uint) {
	if err := s.deps.Cache.Bump(ctx, listScope(s.deps.Workspace)); err != nil {
		s.logger(ctx).Warn().Err(err).Uint("file_id", id).Msg("invalidate file cache failed")
	}
}

func (s *FileService) logger(ctx context.Context) *zerolog.Logger {
	l := ctxPkg.WithTraceContext(ctx, nlog.Component("file"))
	return &l
}

func fileRef(rec *model.FileRecord) queue.FileRef {
	return queue.FileRef{
		Workspace:   rec.Workspace,
		FileID:      rec.FileID,
		Name:        rec.Name,
		Type:        rec.Type,
		Size:        rec.Size,
		Checksum:    rec.Checksum,
		StoragePath: rec.StoragePath,
	}
}

func actor(who ctxPkg.Identity) queue.Actor {
	return queue.Actor{UserID: who.UserID, Username: who.Username}
}
