// Package main 启动应用程序
package main

import "github.com/yeisme/sharevault/pkg/cmd"

//	@title			ShareVault API
//	@version		1.0
//	@description	ShareVault 是一个共享工作区文件管理服务，提供账户认证、文件上传、下载、替换、删除、列表与客户端同步等功能。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

//	@contact.name	yeisme
//	@contact.email	yefun2004@gmail.com

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer <jwt>

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
