// Package main MediaForge Server API
//
//	@title			MediaForge Server API
//	@version		1.0
//	@description	Generation gateway for prompt enhancement, image generation and video generation.
//
//	@license.name	MIT
//
//	@host			localhost:8080
//	@BasePath		/api/v1
//
//	@tag.name			Generation
//	@tag.description	Text, image and video generation
//
//	@tag.name			Health
//	@tag.description	Service and upstream health
package main
