package model_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"github.com/yeisme/sharevault/pkg/internal/model"
	"github.com/yeisme/sharevault/pkg/rule"
)

// TestFileRecordColumnSizes 扩展名最长为文件名去掉一个字符，type 列必须容纳得下.
func TestFileRecordColumnSizes(t *testing.T) {
	s, err := schema.Parse(&model.FileRecord{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	name := s.LookUpField("Name")
	typ := s.LookUpField("Type")
	require.NotNil(t, name)
	require.NotNil(t, typ)

	assert.Equal(t, rule.MaxFileNameLength, name.Size)
	assert.GreaterOrEqual(t, typ.Size, rule.MaxFileNameLength-1)
}

func TestOwnedBy(t *testing.T) {
	rec := &model.FileRecord{UploaderID: 7}

	assert.True(t, rec.OwnedBy(7))
	assert.False(t, rec.OwnedBy(8))
	assert.False(t, (*model.FileRecord)(nil).OwnedBy(7))
}
