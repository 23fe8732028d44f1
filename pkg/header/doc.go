// Package header detects, strips and renders the documentation block that
// headerstamp places at the top of a source file.
//
// The block is a single C-style comment anchored at the first byte:
//
//	/*
//	 * Copyright (c) 2025.12
//	 * All rights reserved.
//	 *
//	 * Logger.h
//	 * ...
//	 */
//
// Detection and stripping work on different evidence. Detector looks for a
// marker word near the top of the file; Strip only removes a comment that
// starts at offset zero. Callers combine the two.
package header
