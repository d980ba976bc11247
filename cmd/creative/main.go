// Package main 启动应用程序
package main

import (
	"os"

	"github.com/sloopymg1/ghana-creative-platform/pkg/cmd"
)

//	@title			Ghana Creative Platform API
//	@version		1.0
//	@description	面向加纳创作者的内容平台：角色权限、内容审核、标签建议与推荐。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer <JWT>

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
