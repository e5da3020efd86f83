package dataset

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// Fingerprint 数据集指纹 "{name}-{size}-{md5}"
// 同名同大小但内容不同的文件指纹不同，用于划分会话内的评分作用域
func Fingerprint(raw []byte, name string, size int64) string {
	sum := md5.Sum(raw)
	return fmt.Sprintf("%s-%d-%s", name, size, hex.EncodeToString(sum[:]))
}
