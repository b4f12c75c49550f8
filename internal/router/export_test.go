package router

var RequestCount = requestCount
