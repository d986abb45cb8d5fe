package db

import "github.com/yeisme/sharevault/pkg/configs"

// mysqlBinaryCollation 使文件名与类型按字节比较，与 SQLite、PostgreSQL 一致.
const mysqlBinaryCollation = "utf8mb4_bin"

func isMySQLFamily(t configs.DBType) bool {
	return t == configs.MySQL || t == configs.MariaDB
}

// tableOptions 返回建表时附加的选项.
func tableOptions(t configs.DBType) string {
	if !isMySQLFamily(t) {
		return ""
	}

	return "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=" + mysqlBinaryCollation
}

// collationFixups 把已存在表中参与唯一索引与过滤的列改为二进制排序规则.
// 语句可重复执行.
func collationFixups(t configs.DBType) []string {
	if !isMySQLFamily(t) {
		return nil
	}

	return []string{
		"ALTER TABLE file_records MODIFY name VARCHAR(255) CHARACTER SET utf8mb4 COLLATE " +
			mysqlBinaryCollation + " NOT NULL",
		"ALTER TABLE file_records MODIFY type VARCHAR(255) CHARACTER SET utf8mb4 COLLATE " +
			mysqlBinaryCollation + " NOT NULL DEFAULT ''",
		"ALTER TABLE users MODIFY username VARCHAR(150) CHARACTER SET utf8mb4 COLLATE " +
			mysqlBinaryCollation + " NOT NULL",
	}
}
